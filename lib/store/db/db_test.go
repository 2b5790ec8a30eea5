package db

import (
	"testing"

	"github.com/GoldenCloudGuy/DecentraPay/lib/store/memory"
)

func TestNew(t *testing.T) {
	dh, err := New(MEMORY, "", "")
	if err != nil {
		t.Fatalf("New err:%v", err)
	}

	if _, ok := dh.(*memory.Memory); !ok {
		t.Errorf("expected memory store, got %T", dh)
	}

	if err = Close(MEMORY, dh); err != nil {
		t.Errorf("Close err:%v", err)
	}

	if _, err = New("cassandra", "", ""); err == nil {
		t.Error("expected error for unknown database type")
	}
}
