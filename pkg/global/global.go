// Package global declares the global option schema for anvil: the named,
// typed options controlling overall tool behavior, the ExecutionOptions
// projection consumed by process execution, and the cross-option validator.
//
// Registration is two-phase. Bootstrap options are the subset whose values
// the execution engine needs before it can be constructed; RegisterOptions
// registers them first and then the remainder, so bootstrap options stay
// visible afterward as ordinary global options.
package global

import (
	"path/filepath"

	"github.com/anvilbuild/anvil/pkg/behavior"
	"github.com/anvilbuild/anvil/pkg/buildenv"
	"github.com/anvilbuild/anvil/pkg/log"
	"github.com/anvilbuild/anvil/pkg/option"
)

// Scope is the global options scope.
const Scope = ""

// NewRegistry creates a registry for the global scope.
func NewRegistry() *option.Registry {
	return option.NewRegistry(Scope)
}

// registrar carries the first registration error, so a long run of
// declarations reads linearly instead of fifty early returns.
type registrar struct {
	reg *option.Registry
	err error
}

func (r *registrar) add(d option.Decl) {
	if r.err != nil {
		return
	}
	r.err = r.reg.Register(d)
}

// RegisterBootstrapOptions registers the options needed to construct the
// execution engine. Anything not consumed during engine construction belongs
// in RegisterOptions instead. Bootstrap options remain accessible later as
// normal global-scope options; their bootstrap status matters only during
// registration.
func RegisterBootstrapOptions(reg *option.Registry, env buildenv.Env) error {
	r := &registrar{reg: reg}

	r.add(option.Decl{
		Name: "level", Alias: "l", Type: option.TypeEnum,
		Choices: log.Levels, Default: "info",
		Help: `Set the logging level. One of: "error", "warn", "info", "debug", "trace".`,
	})
	r.add(option.Decl{
		Name: "show-log-target", Type: option.TypeBool, Default: false, Advanced: true,
		Help: "Display the target where a log message originates. Helpful when paired with --log-levels-by-target.",
	})
	r.add(option.Decl{
		Name: "log-levels-by-target", Type: option.TypeMap, Default: map[string]string{}, Advanced: true,
		Help: "Set a more specific logging level for one or more logging targets. " +
			"Targets not named here use the global level set with --level.",
	})
	r.add(option.Decl{
		Name: "log-show-engine-3rdparty", Type: option.TypeBool, Default: false, Advanced: true,
		Help: "Whether to show logging done by 3rdparty libraries used by the anvil engine.",
	})
	r.add(option.Decl{
		Name: "colors", Type: option.TypeBool, Default: env.StdoutIsTTY,
		Help: "Whether anvil should use colors in output or not. " +
			"This may also impact whether some tools anvil runs use color.",
	})
	r.add(option.Decl{
		Name: "ignore-anvil-warnings", Type: option.TypeList, MemberType: option.TypeString,
		Default: []string{}, Advanced: true,
		Help: "Regexps matching warning strings to ignore. Matched from the start of the " +
			"warning string, always case-insensitively.",
	})

	r.add(option.Decl{
		Name: "anvil-version", Type: option.TypeString, Default: env.Version,
		Advanced: true, Daemon: true,
		Help: "Use this anvil version. Only used to verify that you are running the requested " +
			"version; anvil cannot change its own version mid-run. Useful to pin in anvil.yaml " +
			"for setup scripts and IDE plugins.",
	})
	r.add(option.Decl{
		Name: "anvil-bin-name", Type: option.TypeString, Default: "./anvil", Advanced: true,
		Help: "The name of the script or binary used to invoke anvil. Used when printing help.",
	})
	r.add(option.Decl{
		Name: "plugins", Type: option.TypeList, MemberType: option.TypeString, Advanced: true,
		Help: "Allow backends to be loaded from these plugins. Each plugin's default backends " +
			"load automatically; other backends can be named in `backend-packages`.",
	})
	r.add(option.Decl{
		Name: "plugins-force-resolve", Type: option.TypeBool, Default: false, Advanced: true,
		Help: "Re-resolve plugins even if previously resolved.",
	})
	r.add(option.Decl{
		Name: "plugin-cache-dir", Type: option.TypeDir,
		Default: filepath.Join(env.CacheDir, "plugins"), Advanced: true,
		Help: "Cache resolved plugin requirements here.",
	})
	r.add(option.Decl{
		Name: "backend-packages", Type: option.TypeList, MemberType: option.TypeString,
		Default: []string{}, Advanced: true,
		Help: "Register rules from these backends. Backends must be distributed with anvil, " +
			"in a plugin, or available as sources in the repo.",
	})

	r.add(option.Decl{
		Name: "anvil-bootstrapdir", Type: option.TypeDir, Default: env.CacheDir,
		Metavar: "<dir>", Advanced: true,
		Help: "Use this dir for global cache.",
	})
	r.add(option.Decl{
		Name: "anvil-configdir", Type: option.TypeDir, Default: env.ConfigDir,
		Metavar: "<dir>", Advanced: true,
		Help: "Use this dir for global config files.",
	})
	r.add(option.Decl{
		Name: "anvil-workdir", Type: option.TypeDir,
		Default: filepath.Join(env.BuildRoot, ".anvil.d"),
		Metavar: "<dir>", Advanced: true, Daemon: true,
		Help: "Write intermediate output files to this dir.",
	})
	r.add(option.Decl{
		Name: "anvil-physical-workdir-base", Type: option.TypeDir,
		Metavar: "<dir>", Advanced: true, Daemon: true,
		Help: "When set, a base directory in which to store `--anvil-workdir` contents. " +
			"The workdir is then created as a symlink into a per-workspace subdirectory.",
	})
	r.add(option.Decl{
		Name: "anvil-supportdir", Type: option.TypeDir,
		Default: filepath.Join(env.BuildRoot, "build-support"),
		Metavar: "<dir>", Advanced: true,
		Help: "Use support files from this dir.",
	})
	r.add(option.Decl{
		Name: "anvil-distdir", Type: option.TypeDir,
		Default: filepath.Join(env.BuildRoot, "dist"),
		Metavar: "<dir>", Advanced: true,
		Help: "Write end-product artifacts to this dir.",
	})
	r.add(option.Decl{
		Name: "anvil-distdir-legacy-paths", Type: option.TypeBool, Default: true, Advanced: true,
		Help: "Whether to write binaries to the pre-2.0 paths under distdir. Legacy paths are " +
			"not qualified by target address, so they may be ambiguous.",
	})
	r.add(option.Decl{
		Name: "anvil-subprocessdir", Type: option.TypeDir,
		Default: filepath.Join(env.BuildRoot, ".pids"),
		Advanced: true, Daemon: true,
		Help: "The directory to use for tracking subprocess metadata. This should live outside " +
			"of `--anvil-workdir` so subprocesses can outlive the workdir data.",
	})

	// The content of config and rc files independently affects fingerprints,
	// so the paths themselves must not.
	r.add(option.Decl{
		Name: "anvil-config-files", Type: option.TypeList, MemberType: option.TypeString,
		Default: []string{env.DefaultConfigFile()}, Advanced: true, NoFingerprint: true,
		Help: "Paths to anvil config files.",
	})
	r.add(option.Decl{
		Name: "anvilrc", Type: option.TypeBool, Default: true, Advanced: true, NoFingerprint: true,
		Help: "Use anvilrc files.",
	})
	r.add(option.Decl{
		Name: "anvilrc-files", Type: option.TypeList, MemberType: option.TypeString,
		Default: []string{"/etc/anvilrc", "~/.anvil.rc"},
		Metavar: "<path>", Advanced: true, NoFingerprint: true,
		Help: "Override config with values from these files, using syntax matching that of " +
			"`--anvil-config-files`.",
	})
	r.add(option.Decl{
		Name: "plugin-search-path", Type: option.TypeList, MemberType: option.TypeString, Advanced: true,
		Help: "Add these directories to the search path for plugins.",
	})
	r.add(option.Decl{
		Name: "spec-files", Type: option.TypeList, MemberType: option.TypeString, NoFingerprint: true,
		Help: "Read additional specs (e.g. target addresses or file names), one per line, " +
			"from these files.",
	})
	r.add(option.Decl{
		Name: "spec-file", Type: option.TypeList, MemberType: option.TypeString, NoFingerprint: true,
		RemovalVersion: "2.1.0.dev0", RemovalHint: "Use --spec-files",
		Help: "Read additional specs from this file (e.g. target addresses or file names), " +
			"one per line.",
	})
	r.add(option.Decl{
		Name: "verify-config", Type: option.TypeBool, Default: true, Advanced: true,
		Help: "Verify that all config file values correspond to known options.",
	})

	r.add(option.Decl{
		Name: "anvil-ignore", Type: option.TypeList, MemberType: option.TypeString,
		Default: []string{".*/", "/dist/"}, Advanced: true,
		Help: "Paths to ignore for all filesystem operations performed by anvil (build file " +
			"scanning, glob matching, etc). Patterns use the gitignore syntax. The " +
			"`--anvil-distdir` and `--anvil-workdir` locations are inherently ignored. " +
			"Rules here apply after rules from a .gitignore file when " +
			"--anvil-ignore-use-gitignore is set.",
	})
	r.add(option.Decl{
		Name: "anvil-ignore-use-gitignore", Type: option.TypeBool, Default: true, Advanced: true,
		Help: "Make use of a root .gitignore file when deciding whether to ignore filesystem " +
			"operations performed by anvil.",
	})

	// Logging options are registered in the bootstrap phase so that plugins
	// can log during registration.
	r.add(option.Decl{
		Name: "logdir", Alias: "d", Type: option.TypeDir,
		Metavar: "<dir>", Advanced: true, Daemon: true,
		Help: "Write logs to files under this directory.",
	})

	r.add(option.Decl{
		Name: "anvild", Type: option.TypeBool, Default: true, Advanced: true, Daemon: true,
		Help: "Enables use of the anvil daemon (anvild). anvild can significantly improve " +
			"runtime performance by lowering per-run startup cost, and by caching filesystem " +
			"operations and rule execution.",
	})
	r.add(option.Decl{
		Name: "concurrent", Type: option.TypeBool, Default: false, Advanced: true,
		Help: "Enable concurrent runs of anvil. Without this enabled, concurrent invocations " +
			"(e.g. in other terminals) run without anvild.",
	})
	r.add(option.Decl{
		Name: "anvild-timeout-when-multiple-invocations", Type: option.TypeFloat,
		Default: 60.0, Advanced: true,
		Help: "The maximum amount of time to wait for the invocation to start before raising " +
			"a timeout. anvild does not support parallel runs, so any prior running command " +
			"must finish first. To never time out, use the value -1.",
	})
	r.add(option.Decl{
		Name: "anvild-max-memory-usage", Type: option.TypeInt, Default: 1 << 30, Advanced: true,
		Help: "The maximum memory usage of an anvild process (in bytes). There is at most one " +
			"anvild process per workspace.",
	})

	r.add(option.Decl{
		Name: "engine-visualize-to", Type: option.TypeDir, Advanced: true,
		Help: "A directory to write execution and rule graphs to as `dot` files. Colliding " +
			"filenames are overwritten.",
	})
	r.add(option.Decl{
		Name: "print-stacktrace", Type: option.TypeBool, Default: false, Advanced: true,
		Help: "Print the full exception stack trace for any errors.",
	})
	r.add(option.Decl{
		Name: "print-exception-stacktrace", Type: option.TypeBool, Default: false, Advanced: true,
		RemovalVersion: "2.1.0.dev0",
		RemovalHint:    "Use `--print-stacktrace` instead of `--print-exception-stacktrace`.",
		Help:           "Print to console the full exception stack trace if encountered.",
	})

	r.add(option.Decl{
		Name: "anvild-pailgun-port", Type: option.TypeInt, Default: 0, Advanced: true, Daemon: true,
		Help: "The port to bind the anvil nailgun server to. Defaults to a random port.",
	})
	r.add(option.Decl{
		Name: "anvild-pailgun-quit-timeout", Type: option.TypeFloat, Default: 5.0, Advanced: true,
		Help: "The length of time (in seconds) to wait for further output after sending a " +
			"signal to the remote anvild process before killing it.",
	})
	r.add(option.Decl{
		Name: "anvild-log-dir", Type: option.TypeDir, Advanced: true, Daemon: true,
		Help: "The directory to log anvild output to.",
	})
	r.add(option.Decl{
		Name: "anvild-invalidation-globs", Type: option.TypeList, MemberType: option.TypeString,
		Default: []string{}, Advanced: true, Daemon: true,
		Help: "Filesystem events matching any of these globs will trigger a daemon restart. " +
			"anvil's own code, plugins, and `--anvil-config-files` are inherently invalidated.",
	})

	cacheInstructions := "The path may be absolute or relative. If the directory is within the " +
		"build root, be sure to include it in `--anvil-ignore`."
	r.add(option.Decl{
		Name: "local-store-dir", Type: option.TypeDir,
		Default: filepath.Join(env.CacheDir, "lmdb_store"), Advanced: true,
		Help: "Directory to use for the local file store, which stores the results of " +
			"subprocesses run by anvil. " + cacheInstructions,
	})
	r.add(option.Decl{
		Name: "local-execution-root-dir", Type: option.TypeDir, Default: env.TempDir, Advanced: true,
		Help: "Directory to use for local process execution sandboxing. " + cacheInstructions,
	})
	r.add(option.Decl{
		Name: "named-caches-dir", Type: option.TypeDir,
		Default: filepath.Join(env.CacheDir, "named_caches"), Advanced: true,
		Help: "Directory to use for named global caches for tools and processes with trusted, " +
			"concurrency-safe caches. " + cacheInstructions,
	})
	r.add(option.Decl{
		Name: "ca-certs-path", Type: option.TypeString, Advanced: true,
		Help: "Path to a file containing PEM-format CA certificates used for verifying secure " +
			"connections when downloading files required by a build.",
	})

	registerExecutionOptions(r, env)
	return r.err
}

// registerExecutionOptions declares the remote/local process-execution
// block. Defaults come from the same constructor that builds
// DefaultExecutionOptions, with local parallelism taken from the captured
// CPU count, so the canonical default instance and the schema cannot drift.
func registerExecutionOptions(r *registrar, env buildenv.Env) {
	defaults := defaultExecutionOptions(env.NumCPUs)

	r.add(option.Decl{
		Name: "remote-execution", Type: option.TypeBool,
		Default: defaults.RemoteExecution, Advanced: true,
		Help: "Enables remote workers for increased parallelism. (Alpha)",
	})
	r.add(option.Decl{
		Name: "remote-store-server", Type: option.TypeList, MemberType: option.TypeString,
		Default: []string{}, Advanced: true,
		Help: "host:port of grpc server to use as remote execution file store.",
	})
	r.add(option.Decl{
		Name: "remote-store-thread-count", Type: option.TypeInt,
		Default: defaults.RemoteStoreThreadCount, Advanced: true,
		Help: "Thread count to use for the pool that interacts with the remote file store.",
	})
	r.add(option.Decl{
		Name: "remote-execution-server", Type: option.TypeString, Advanced: true,
		Help: "host:port of grpc server to use as remote execution scheduler.",
	})
	r.add(option.Decl{
		Name: "remote-store-chunk-bytes", Type: option.TypeInt,
		Default: defaults.RemoteStoreChunkBytes, Advanced: true,
		Help: "Size in bytes of chunks transferred to/from the remote file store.",
	})
	r.add(option.Decl{
		Name: "remote-store-chunk-upload-timeout-seconds", Type: option.TypeInt,
		Default: defaults.RemoteStoreChunkUploadTimeoutSeconds, Advanced: true,
		Help: "Timeout (in seconds) for uploads of individual chunks to the remote file store.",
	})
	r.add(option.Decl{
		Name: "remote-store-rpc-retries", Type: option.TypeInt,
		Default: defaults.RemoteStoreRPCRetries, Advanced: true,
		Help: "Number of times to retry any RPC to the remote store before giving up.",
	})
	r.add(option.Decl{
		Name: "remote-store-connection-limit", Type: option.TypeInt,
		Default: defaults.RemoteStoreConnectionLimit, Advanced: true,
		Help: "Number of remote stores to concurrently allow connections to.",
	})
	r.add(option.Decl{
		Name: "remote-execution-process-cache-namespace", Type: option.TypeString, Advanced: true,
		Help: "The cache namespace for remote process execution. Bump this to invalidate every " +
			"artifact's remote execution.",
	})
	r.add(option.Decl{
		Name: "remote-instance-name", Type: option.TypeString, Advanced: true,
		Help: "Name of the remote execution instance to use. Used for routing within " +
			"--remote-execution-server and --remote-store-server.",
	})
	r.add(option.Decl{
		Name: "remote-ca-certs-path", Type: option.TypeString, Advanced: true,
		Help: "Path to a PEM file containing CA certificates used for verifying secure " +
			"connections to --remote-execution-server and --remote-store-server. " +
			"If not specified, TLS will not be used.",
	})
	r.add(option.Decl{
		Name: "remote-oauth-bearer-token-path", Type: option.TypeString, Advanced: true,
		Help: "Path to a file containing an oauth token to use for grpc connections to " +
			"--remote-execution-server and --remote-store-server. If not specified, no " +
			"authorization will be performed.",
	})
	r.add(option.Decl{
		Name: "remote-execution-extra-platform-properties", Type: option.TypeList,
		MemberType: option.TypeString, Default: []string{}, Advanced: true,
		Help: "Platform properties to set on remote execution requests. Format: property=value. " +
			"Repeat the flag for multiple values. anvil itself may add additional properties.",
	})
	r.add(option.Decl{
		Name: "remote-execution-headers", Type: option.TypeMap,
		Default: map[string]string{}, Advanced: true,
		Help: "Headers to set on remote execution requests. Format: header=value. anvil itself " +
			"may add additional headers.",
	})
	r.add(option.Decl{
		Name: "remote-execution-overall-deadline-secs", Type: option.TypeInt,
		Default: defaults.RemoteExecutionOverallDeadlineSecs, Advanced: true,
		Help: "Overall timeout in seconds for each remote execution request from time of submission.",
	})
	r.add(option.Decl{
		Name: "process-execution-local-parallelism", Type: option.TypeInt,
		Default: defaults.ProcessExecutionLocalParallelism, Advanced: true,
		Help: "Number of concurrent processes that may be executed locally.",
	})
	r.add(option.Decl{
		Name: "process-execution-remote-parallelism", Type: option.TypeInt,
		Default: defaults.ProcessExecutionRemoteParallelism, Advanced: true,
		Help: "Number of concurrent processes that may be executed remotely.",
	})
	r.add(option.Decl{
		Name: "process-execution-cleanup-local-dirs", Type: option.TypeBool,
		Default: defaults.ProcessExecutionCleanupLocalDirs, Advanced: true,
		Help: "Whether or not to cleanup directories used for local process execution " +
			"(primarily useful for e.g. debugging).",
	})
	r.add(option.Decl{
		Name: "process-execution-speculation-delay", Type: option.TypeFloat,
		Default: defaults.ProcessExecutionSpeculationDelay, Advanced: true,
		Help: "Number of seconds to wait before speculating a second request for a slow " +
			"process; see `--process-execution-speculation-strategy`.",
	})
	r.add(option.Decl{
		Name: "process-execution-speculation-strategy", Type: option.TypeString,
		Choices: []string{"remote_first", "local_first", "none"},
		Default: defaults.ProcessExecutionSpeculationStrategy, Advanced: true,
		Help: "Speculate a second request for an underlying process if the first does not " +
			"complete within `--process-execution-speculation-delay` seconds. `local_first`: " +
			"run locally first, falling back to remote execution if available. `remote_first`: " +
			"run remotely if available, falling back to the local host if remote calls exceed " +
			"the speculation timeout. `none`: do not speculate.",
	})
	r.add(option.Decl{
		Name: "process-execution-use-local-cache", Type: option.TypeBool,
		Default: defaults.ProcessExecutionUseLocalCache, Advanced: true,
		Help: "Whether to keep process executions in a local cache persisted to disk.",
	})
	r.add(option.Decl{
		Name: "process-execution-local-enable-nailgun", Type: option.TypeBool,
		Default: defaults.ProcessExecutionLocalEnableNailgun, Advanced: true,
		Help: "Whether or not to use nailgun to run the requests that are marked as nailgunnable.",
	})
}

// RegisterOptions registers the full global option set. Bootstrap options
// register first, as the initial step, so their names stay resolvable as
// ordinary global options and the full set cannot precede them.
func RegisterOptions(reg *option.Registry, env buildenv.Env) error {
	if err := RegisterBootstrapOptions(reg, env); err != nil {
		return err
	}
	if err := reg.FinishBootstrap(); err != nil {
		return err
	}

	r := &registrar{reg: reg}

	r.add(option.Decl{
		Name: "dynamic-ui", Type: option.TypeBool,
		Default: env.StderrIsTTY && !env.InCI,
		Help: "Display a dynamically-updating console UI as anvil runs. True by default when " +
			"anvil detects a TTY and no 'CI' environment variable indicates a continuous " +
			"integration environment.",
	})

	r.add(option.Decl{
		Name: "tag", Type: option.TypeList, MemberType: option.TypeString,
		Metavar: "[+-]tag1,tag2,...",
		Help: "Include only targets with these tags (optional '+' prefix) or without these " +
			"tags ('-' prefix).",
	})
	r.add(option.Decl{
		Name: "exclude-target-regexp", Type: option.TypeList, MemberType: option.TypeString,
		Default: []string{}, Metavar: "<regexp>",
		Help: "Exclude target roots that match these regexes.",
	})

	r.add(option.Decl{
		Name: "build-patterns", Type: option.TypeList, MemberType: option.TypeString,
		Default: []string{"BUILD", "BUILD.*"}, Advanced: true,
		Help: "The naming scheme for BUILD files, i.e. where you define targets. This sets only " +
			"the naming scheme, not the directory paths to look in. To add ignore patterns, " +
			"use `--build-ignore`.",
	})
	r.add(option.Decl{
		Name: "build-ignore", Type: option.TypeList, MemberType: option.TypeString,
		Default: []string{}, Advanced: true,
		Help: "Paths to ignore when identifying BUILD files. Does not affect other filesystem " +
			"operations; use `--anvil-ignore` for that. Patterns use the gitignore syntax.",
	})
	r.add(option.Decl{
		Name: "build-file-prelude-globs", Type: option.TypeList, MemberType: option.TypeString,
		Default: []string{}, Advanced: true,
		Help: "Files to evaluate and whose symbols should be exposed to all BUILD files.",
	})
	r.add(option.Decl{
		Name: "subproject-roots", Type: option.TypeList, MemberType: option.TypeString,
		Default: []string{}, Advanced: true,
		Help: "Paths that correspond with build roots for any subproject this project depends on.",
	})

	r.add(option.Decl{
		Name: "files-not-found-behavior", Type: option.TypeEnum,
		Choices: behavior.FilesNotFoundBehaviors,
		Default: string(behavior.FilesNotFoundWarn), Advanced: true,
		Help: "What to do when files and globs specified in BUILD files, such as in the " +
			"`sources` field, cannot be found. This happens when the files do not exist on " +
			"your machine or when they are ignored by the `--anvil-ignore` option.",
	})
	r.add(option.Decl{
		Name: "owners-not-found-behavior", Type: option.TypeEnum,
		Choices: behavior.OwnersNotFoundBehaviors,
		Default: string(behavior.OwnersNotFoundError), Advanced: true,
		Help: "What to do when file arguments do not have any owning target. This happens when " +
			"there are no targets whose `sources` fields include the file argument.",
	})

	r.add(option.Decl{
		Name: "loop", Type: option.TypeBool,
		Help: "Run goals continuously as file changes are detected.",
	})
	r.add(option.Decl{
		Name: "loop-max", Type: option.TypeInt, Default: 1 << 32, Advanced: true,
		Help: "The maximum number of times to loop when `--loop` is specified.",
	})

	r.add(option.Decl{
		Name: "lock", Type: option.TypeBool, Default: true, Advanced: true,
		Help: "Use a global lock to exclude other versions of anvil from running during " +
			"critical operations.",
	})

	r.add(option.Decl{
		Name: "streaming-workunits-report-interval", Type: option.TypeFloat,
		Default: 10.0, Advanced: true,
		Help: "Interval in seconds between polls of streaming workunit event receivers.",
	})
	r.add(option.Decl{
		Name: "streaming-workunits-handlers", Type: option.TypeList, MemberType: option.TypeString,
		Default: []string{}, Advanced: true,
		Help: "Names of subsystems which will receive streaming workunit events.",
	})

	return r.err
}
