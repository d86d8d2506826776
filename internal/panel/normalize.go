package panel

import (
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/unkn0wn-root/actionrun/internal/identity"
	"github.com/unkn0wn-root/actionrun/internal/jsonutil"
)

const (
	HeaderAuthorization = "authorization"
	HeaderOrgID         = "x-gw-ims-org-id"
)

// NormalizeHeaders lower-cases every key and injects credentials the user did
// not supply. Keys are folded in insertion order, so when two keys differ
// only by case the one defined last wins. A user value for authorization or
// the org header, in any case, is never replaced. user is not modified.
func NormalizeHeaders(user *jsonutil.Object, creds identity.Credentials) *orderedmap.OrderedMap[string, string] {
	out := orderedmap.New[string, string]()
	if user != nil {
		for pair := user.Oldest(); pair != nil; pair = pair.Next() {
			out.Set(pair.Key, jsonutil.Text(pair.Value))
		}
	}

	keys := make([]string, 0, out.Len())
	for pair := out.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	for _, key := range keys {
		lower := strings.ToLower(key)
		if lower == key {
			continue
		}
		value, _ := out.Get(key)
		out.Set(lower, value)
		out.Delete(key)
	}

	if creds.Token != "" {
		if _, ok := out.Get(HeaderAuthorization); !ok {
			out.Set(HeaderAuthorization, "Bearer "+creds.Token)
		}
	}
	if creds.Org != "" {
		if _, ok := out.Get(HeaderOrgID); !ok {
			out.Set(HeaderOrgID, creds.Org)
		}
	}
	return out
}
