package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mmynk/phonebook/internal/auth"
	"github.com/mmynk/phonebook/internal/models"
	"github.com/mmynk/phonebook/internal/storage"
)

// run executes the root command with args and returns its stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestPeopleCommands(t *testing.T) {
	db := filepath.Join(t.TempDir(), "cli.sqlite")

	out, err := run(t, "--db", db, "people", "add",
		"--first", "Fred", "--last", "Falconi", "--email", "fred@example.com",
		"--phone", "888-888-8888:cell", "--phone", "666-666-6666:WORK")
	if err != nil {
		t.Fatalf("people add failed: %v", err)
	}
	if !strings.Contains(out, "Added Fred Falconi (id 1) with 2 phone number(s)") {
		t.Errorf("unexpected add output: %q", out)
	}

	if _, err := run(t, "--db", db, "people", "add", "--first", "Amy", "--last", "Alone"); err != nil {
		t.Fatalf("people add without phones failed: %v", err)
	}

	t.Run("list renders headings and phones", func(t *testing.T) {
		out, err := run(t, "--db", db, "people", "list", "--order-by", "first_name")
		if err != nil {
			t.Fatalf("people list failed: %v", err)
		}

		lines := strings.Split(strings.TrimSpace(out), "\n")
		if len(lines) != 3 {
			t.Fatalf("expected header + 2 rows, got %d lines:\n%s", len(lines), out)
		}
		for _, h := range []string{"ID", "First Name", "Last Name", "Birthday", "Email", "Phone Numbers"} {
			if !strings.Contains(lines[0], h) {
				t.Errorf("header missing %q: %s", h, lines[0])
			}
		}
		if !strings.Contains(lines[1], "Amy") {
			t.Errorf("expected Amy first when sorted by first_name: %s", lines[1])
		}
		if !strings.Contains(lines[2], "888-888-8888 (CELL), 666-666-6666 (WORK)") {
			t.Errorf("phones not rendered: %s", lines[2])
		}
	})

	t.Run("list rejects unknown sort field", func(t *testing.T) {
		_, err := run(t, "--db", db, "people", "list", "--order-by", "city")
		if !errors.Is(err, storage.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("delete removes id", func(t *testing.T) {
		if _, err := run(t, "--db", db, "people", "delete", "1"); err != nil {
			t.Fatalf("people delete failed: %v", err)
		}

		out, err := run(t, "--db", db, "people", "ids")
		if err != nil {
			t.Fatalf("people ids failed: %v", err)
		}
		if strings.TrimSpace(out) != "2" {
			t.Errorf("expected only id 2, got %q", out)
		}

		if _, err := run(t, "--db", db, "people", "delete", "1"); err == nil {
			t.Error("expected error deleting missing person")
		}
		if _, err := run(t, "--db", db, "people", "delete", "abc"); err == nil {
			t.Error("expected error for non-numeric id")
		}
	})
}

func TestUserCommands(t *testing.T) {
	db := filepath.Join(t.TempDir(), "cli.sqlite")

	if _, err := run(t, "--db", db, "user", "add", "alice", "--password", "first-pass"); err != nil {
		t.Fatalf("user add failed: %v", err)
	}

	if _, err := run(t, "--db", db, "user", "check", "alice", "--password", "first-pass"); err != nil {
		t.Errorf("user check failed: %v", err)
	}

	_, err := run(t, "--db", db, "user", "check", "alice", "--password", "wrong-pass")
	if !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}

	if _, err := run(t, "--db", db, "user", "passwd", "alice", "--old", "first-pass", "--new", "second-pass"); err != nil {
		t.Fatalf("user passwd failed: %v", err)
	}
	if _, err := run(t, "--db", db, "user", "check", "alice", "--password", "second-pass"); err != nil {
		t.Errorf("new password rejected: %v", err)
	}
}

func TestMetricsFileWritten(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "cli.sqlite")
	prom := filepath.Join(dir, "phonebook.prom")

	if _, err := run(t, "--db", db, "--metrics-file", prom, "people", "ids"); err != nil {
		t.Fatalf("people ids failed: %v", err)
	}

	data, err := os.ReadFile(prom)
	if err != nil {
		t.Fatalf("metrics file not written: %v", err)
	}
	if !strings.Contains(string(data), `operation="person_ids"`) {
		t.Errorf("metrics file missing person_ids series:\n%s", data)
	}
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.HasPrefix(out, "phonebook dev") {
		t.Errorf("unexpected version output: %q", out)
	}
}

func TestParsePhone(t *testing.T) {
	tests := []struct {
		raw     string
		want    models.Phone
		wantErr bool
	}{
		{"555-0100:cell", models.Phone{Number: "555-0100", Label: "CELL"}, false},
		{"555-0100", models.Phone{Number: "555-0100"}, false},
		{" 555-0100 : work ", models.Phone{Number: "555-0100", Label: "WORK"}, false},
		{"+1:555:0100:HOME", models.Phone{Number: "+1:555:0100", Label: "HOME"}, false},
		{":CELL", models.Phone{}, true},
		{"", models.Phone{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parsePhone(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}
