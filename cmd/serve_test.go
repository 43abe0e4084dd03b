package cmd

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/theirongolddev/tiffin/internal/config"
)

func TestFilterDetachArg(t *testing.T) {
	got := filterDetachArg([]string{"serve", "--detach", "--addr", ":9000", "--detach=true"})
	want := []string{"serve", "--addr", ":9000"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("filterDetachArg = %v, want %v", got, want)
	}
}

func TestPIDAndStateFiles(t *testing.T) {
	dir := t.TempDir()
	pidFile := filepath.Join(dir, "tiffind.pid")

	if err := ensureDaemonNotRunning(pidFile); err != nil {
		t.Fatalf("missing pid file: %v", err)
	}

	if err := writePID(pidFile, os.Getpid()); err != nil {
		t.Fatal(err)
	}
	pid, err := readPID(pidFile)
	if err != nil || pid != os.Getpid() {
		t.Fatalf("readPID = %d, %v", pid, err)
	}
	if err := ensureDaemonNotRunning(pidFile); err == nil {
		t.Error("running process not detected")
	}

	st := daemonRuntimeState{PID: pid, Addr: "127.0.0.1:8787", StartedAt: time.Now().UTC().Truncate(time.Second), UserID: "u"}
	if err := writeState(statePath(pidFile), st); err != nil {
		t.Fatal(err)
	}
	got, err := readState(statePath(pidFile))
	if err != nil {
		t.Fatal(err)
	}
	if !got.StartedAt.Equal(st.StartedAt) || got.UserID != "u" || got.Addr != st.Addr {
		t.Errorf("readState = %+v, want %+v", got, st)
	}

	if err := os.WriteFile(pidFile, []byte("nope\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := readPID(pidFile); err == nil {
		t.Error("invalid pid accepted")
	}
}

func TestDaemonConfigFlagsOverride(t *testing.T) {
	cfg := config.DefaultConfig()

	dcfg := daemonConfig(cfg)
	if dcfg.Addr != cfg.Daemon.Addr || dcfg.Interval != 30*time.Second || dcfg.UserID != cfg.Ledger.UserID {
		t.Errorf("daemonConfig(defaults) = %+v", dcfg)
	}

	flagDaemonAddr, flagDaemonInterval, flagUser = ":9999", 5*time.Second, "bob"
	t.Cleanup(func() { flagDaemonAddr, flagDaemonInterval, flagUser = "", 0, "" })

	dcfg = daemonConfig(cfg)
	if dcfg.Addr != ":9999" || dcfg.Interval != 5*time.Second || dcfg.UserID != "bob" {
		t.Errorf("daemonConfig(flags) = %+v", dcfg)
	}
}
