package global

import (
	"runtime"

	"github.com/anvilbuild/anvil/pkg/option"
)

// ExecutionOptions collects every option related to (local and remote)
// execution of processes, projected from resolved bootstrap values.
//
// An instance is built exactly once per run, immediately after bootstrap
// values are resolved, and is then shared read-only: nothing mutates it, so
// any number of concurrent executors may read it without synchronization.
type ExecutionOptions struct {
	RemoteExecution       bool
	RemoteStoreServer     []string
	RemoteExecutionServer string

	RemoteStoreThreadCount               int
	RemoteStoreChunkBytes                int
	RemoteStoreChunkUploadTimeoutSeconds int
	RemoteStoreRPCRetries                int
	RemoteStoreConnectionLimit           int

	ProcessExecutionLocalParallelism    int
	ProcessExecutionRemoteParallelism   int
	ProcessExecutionCleanupLocalDirs    bool
	ProcessExecutionSpeculationDelay    float64
	ProcessExecutionSpeculationStrategy string
	ProcessExecutionUseLocalCache       bool
	ProcessExecutionLocalEnableNailgun  bool

	RemoteExecutionProcessCacheNamespace   string
	RemoteInstanceName                     string
	RemoteCACertsPath                      string
	RemoteOAuthBearerTokenPath             string
	RemoteExecutionExtraPlatformProperties []string
	RemoteExecutionHeaders                 map[string]string
	RemoteExecutionOverallDeadlineSecs     int
}

// DefaultExecutionOptions is the canonical default instance. The bootstrap
// registration in this package builds its defaults with the same constructor,
// substituting the captured CPU count for local parallelism, so the
// registered schema and this instance cannot drift apart.
var DefaultExecutionOptions = defaultExecutionOptions(runtime.NumCPU())

func defaultExecutionOptions(localParallelism int) ExecutionOptions {
	return ExecutionOptions{
		RemoteExecution:                        false,
		RemoteStoreServer:                      []string{},
		RemoteExecutionServer:                  "",
		RemoteStoreThreadCount:                 1,
		RemoteStoreChunkBytes:                  1024 * 1024,
		RemoteStoreChunkUploadTimeoutSeconds:   60,
		RemoteStoreRPCRetries:                  2,
		RemoteStoreConnectionLimit:             5,
		ProcessExecutionLocalParallelism:       localParallelism,
		ProcessExecutionRemoteParallelism:      128,
		ProcessExecutionCleanupLocalDirs:       true,
		ProcessExecutionSpeculationDelay:       1,
		ProcessExecutionSpeculationStrategy:    "none",
		ProcessExecutionUseLocalCache:          true,
		ProcessExecutionLocalEnableNailgun:     false,
		RemoteExecutionProcessCacheNamespace:   "",
		RemoteInstanceName:                     "",
		RemoteCACertsPath:                      "",
		RemoteOAuthBearerTokenPath:             "",
		RemoteExecutionExtraPlatformProperties: []string{},
		RemoteExecutionHeaders:                 map[string]string{},
		RemoteExecutionOverallDeadlineSecs:     60 * 60, // one hour
	}
}

// FromBootstrapValues projects an ExecutionOptions from resolved bootstrap
// option values. It is the single constructor besides the canonical default:
// a deterministic field-by-field copy, with lists and maps copied by value so
// the projection never aliases the value bag.
func FromBootstrapValues(v *option.Values) ExecutionOptions {
	return ExecutionOptions{
		RemoteExecution:                        v.Bool("remote-execution"),
		RemoteStoreServer:                      v.StrList("remote-store-server"),
		RemoteExecutionServer:                  v.Str("remote-execution-server"),
		RemoteStoreThreadCount:                 v.Int("remote-store-thread-count"),
		RemoteStoreChunkBytes:                  v.Int("remote-store-chunk-bytes"),
		RemoteStoreChunkUploadTimeoutSeconds:   v.Int("remote-store-chunk-upload-timeout-seconds"),
		RemoteStoreRPCRetries:                  v.Int("remote-store-rpc-retries"),
		RemoteStoreConnectionLimit:             v.Int("remote-store-connection-limit"),
		ProcessExecutionLocalParallelism:       v.Int("process-execution-local-parallelism"),
		ProcessExecutionRemoteParallelism:      v.Int("process-execution-remote-parallelism"),
		ProcessExecutionCleanupLocalDirs:       v.Bool("process-execution-cleanup-local-dirs"),
		ProcessExecutionSpeculationDelay:       v.Float("process-execution-speculation-delay"),
		ProcessExecutionSpeculationStrategy:    v.Str("process-execution-speculation-strategy"),
		ProcessExecutionUseLocalCache:          v.Bool("process-execution-use-local-cache"),
		ProcessExecutionLocalEnableNailgun:     v.Bool("process-execution-local-enable-nailgun"),
		RemoteExecutionProcessCacheNamespace:   v.Str("remote-execution-process-cache-namespace"),
		RemoteInstanceName:                     v.Str("remote-instance-name"),
		RemoteCACertsPath:                      v.Str("remote-ca-certs-path"),
		RemoteOAuthBearerTokenPath:             v.Str("remote-oauth-bearer-token-path"),
		RemoteExecutionExtraPlatformProperties: v.StrList("remote-execution-extra-platform-properties"),
		RemoteExecutionHeaders:                 v.StrMap("remote-execution-headers"),
		RemoteExecutionOverallDeadlineSecs:     v.Int("remote-execution-overall-deadline-secs"),
	}
}
