package db

import (
	"context"
	"testing"

	"waiter-telegram/config"
)

func TestConnString(t *testing.T) {
	got := ConnString(config.DBConfig{Host: "db", Port: 5433, User: "waiter", Password: "p@ss/word", Database: "orders"})
	want := "postgres://waiter:p%40ss%2Fword@db:5433/orders"
	if got != want {
		t.Errorf("ConnString = %q, want %q", got, want)
	}
}

func TestPingWithoutPool(t *testing.T) {
	saved := Pool
	Pool = nil
	defer func() { Pool = saved }()
	if err := Ping(context.Background()); err == nil {
		t.Error("Ping without a pool should fail")
	}
}
