package cache

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/goliatone/go-finance-cache/internal/cacheinfra"
)

// KeySeparator defines the delimiter used between cache key segments.
const KeySeparator = cacheinfra.KeySeparator

var tokenEscaper = strings.NewReplacer(`\`, `\\`, `:`, `\:`)

// defaultKeySerializer turns query key tokens into the flat string used by the
// backing store. String tokens are escaped so that a serialized key never
// contains a separator inside a token, which keeps prefix matching exact.
// Non string tokens carry a short type tag so ["payment", 1] and
// ["payment", "1"] address different partitions.
type defaultKeySerializer struct{}

// NewDefaultKeySerializer creates a new instance of the default key serializer.
func NewDefaultKeySerializer() KeySerializer {
	return &defaultKeySerializer{}
}

// SerializeKey builds the store key for a scope token followed by args.
func (s *defaultKeySerializer) SerializeKey(scope string, args ...any) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, tokenEscaper.Replace(scope))
	for _, arg := range args {
		parts = append(parts, s.serializeToken(arg))
	}
	return strings.Join(parts, KeySeparator)
}

func (s *defaultKeySerializer) serializeToken(v any) string {
	if v == nil {
		return "nil"
	}

	switch t := v.(type) {
	case string:
		return tokenEscaper.Replace(t)
	case bool:
		return "b:" + strconv.FormatBool(t)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "i:" + strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "i:" + strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return "f:" + strconv.FormatFloat(rv.Float(), 'g', -1, 64)
	case reflect.String:
		return tokenEscaper.Replace(rv.String())
	case reflect.Ptr:
		if rv.IsNil() {
			return "nil"
		}
		return s.serializeToken(rv.Elem().Interface())
	}

	return s.jsonFallback(v)
}

// jsonFallback covers tokens that are not primitives. Keys are expected to
// hold primitives only, so this path exists to keep serialization total.
func (s *defaultKeySerializer) jsonFallback(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "fallback\\:" + tokenEscaper.Replace(fmt.Sprintf("%T", v))
	}
	return "json\\:" + tokenEscaper.Replace(string(data))
}
