package cache

import (
	"context"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
)

type payload struct {
	Name  string
	Count int
}

func TestValueDirectAssertion(t *testing.T) {
	got, ok := Value[payload](payload{Name: "a", Count: 2})
	if !ok || got.Name != "a" || got.Count != 2 {
		t.Fatalf("Value = %+v, ok = %v", got, ok)
	}
}

func TestValueDecodesEncodedPayload(t *testing.T) {
	data, err := msgpack.Marshal(payload{Name: "b", Count: 7})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	got, ok := Value[payload](data)
	if !ok || got.Name != "b" || got.Count != 7 {
		t.Fatalf("Value = %+v, ok = %v", got, ok)
	}
}

func TestValueRejectsMismatchedType(t *testing.T) {
	if _, ok := Value[payload]("not a payload"); ok {
		t.Error("string must not coerce to payload")
	}
}

func TestGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := testCache(t)

	if err := svc.Set(ctx, "k", payload{Name: "c", Count: 1}); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, ok := Get[payload](ctx, svc, "k")
	if !ok || got.Name != "c" {
		t.Fatalf("Get = %+v, ok = %v", got, ok)
	}
	if _, ok := Get[payload](ctx, svc, "missing"); ok {
		t.Error("missing key must miss")
	}
}
