package cache

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/vmihailenco/msgpack/v5"
)

// KeySeparator delimits cache key segments.
const KeySeparator = "::"

// maxKeyLength bounds serialized keys; anything longer collapses to a digest
// so remote backends never see oversized keys.
const maxKeyLength = 160

// KeySerializer builds a stable cache key from an entity namespace, a method
// name, and arbitrary arguments.
type KeySerializer interface {
	SerializeKey(namespace, method string, args ...any) string
}

type defaultKeySerializer struct{}

// NewDefaultKeySerializer returns the reflection-based serializer used
// throughout the framework. Keys are deterministic within a process; caller
// filter functions serialize by identity, which is all the invalidation
// strategy needs.
func NewDefaultKeySerializer() KeySerializer {
	return defaultKeySerializer{}
}

func (s defaultKeySerializer) SerializeKey(namespace, method string, args ...any) string {
	parts := make([]string, 0, len(args)+2)
	parts = append(parts, namespace, method)
	for _, arg := range args {
		parts = append(parts, s.serializeValue(arg))
	}
	key := strings.Join(parts, KeySeparator)
	if len(key) > maxKeyLength {
		digest := xxhash.Sum64String(key)
		key = strings.Join([]string{namespace, method, fmt.Sprintf("h:%016x", digest)}, KeySeparator)
	}
	return key
}

func (s defaultKeySerializer) serializeValue(v any) string {
	if v == nil {
		return "nil"
	}
	if str, ok := v.(fmt.Stringer); ok {
		return str.String()
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Func:
		// Identity is enough: filter funcs are stable for the life of the
		// process and keys never outlive it.
		return fmt.Sprintf("func:%p", v)
	case reflect.Ptr:
		if rv.IsNil() {
			return "nil"
		}
		return s.serializeValue(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return "nil"
		}
		parts := make([]string, rv.Len())
		for i := range parts {
			parts[i] = s.serializeValue(rv.Index(i).Interface())
		}
		return fmt.Sprintf("[%s]", strings.Join(parts, ","))
	case reflect.Map:
		if rv.IsNil() {
			return "nil"
		}
		pairs := make([]string, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			pairs = append(pairs, s.serializeValue(iter.Key().Interface())+"="+s.serializeValue(iter.Value().Interface()))
		}
		sort.Strings(pairs)
		return fmt.Sprintf("{%s}", strings.Join(pairs, ","))
	case reflect.Struct:
		rt := rv.Type()
		parts := make([]string, 0, rv.NumField())
		for i := 0; i < rv.NumField(); i++ {
			f := rt.Field(i)
			if !f.IsExported() {
				continue
			}
			parts = append(parts, f.Name+":"+s.serializeValue(rv.Field(i).Interface()))
		}
		return fmt.Sprintf("{%s}", strings.Join(parts, ","))
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64,
		reflect.String:
		return fmt.Sprintf("%v", v)
	default:
		return s.encodedFallback(v)
	}
}

// encodedFallback digests values the switch cannot decompose.
func (s defaultKeySerializer) encodedFallback(v any) string {
	data, err := msgpack.Marshal(v)
	if err != nil {
		return fmt.Sprintf("opaque:%T", v)
	}
	return fmt.Sprintf("enc:%016x", xxhash.Sum64(data))
}
