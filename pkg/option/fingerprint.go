package option

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Fingerprint computes a stable digest over the resolved values of every
// fingerprint-participating option, sorted by name. Options declared with
// NoFingerprint never contribute, regardless of their value: their content
// reaches the cache key through other mechanisms, or must not reach it at
// all.
func (v *Values) Fingerprint() string {
	names := make([]string, 0, len(v.vals))
	for _, d := range v.reg.Decls() {
		if d.Fingerprinted() {
			names = append(names, d.Name)
		}
	}
	sort.Strings(names)

	h := sha256.New()
	for _, name := range names {
		fmt.Fprintf(h, "%s=%s\n", name, encodeValue(v.vals[name]))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// encodeValue renders a resolved value deterministically and injectively.
// List members and map entries are quoted, so a member containing the
// separator cannot collide with a split member. Map entries are emitted in
// sorted key order so iteration order cannot leak into the digest.
func encodeValue(val any) string {
	switch v := val.(type) {
	case []string:
		quoted := make([]string, len(v))
		for i, m := range v {
			quoted[i] = strconv.Quote(m)
		}
		return "[" + strings.Join(quoted, ",") + "]"
	case map[string]string:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var b strings.Builder
		b.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				b.WriteByte(',')
			}
			fmt.Fprintf(&b, "%s=%s", strconv.Quote(k), strconv.Quote(v[k]))
		}
		b.WriteByte('}')
		return b.String()
	default:
		return fmt.Sprint(v)
	}
}
