package keyring

import (
	"errors"
	"testing"

	gokeyring "github.com/zalando/go-keyring"
)

func TestSetGetDelete(t *testing.T) {
	gokeyring.MockInit()

	if err := Set(OutlookTokenAccount, `{"access_token":"x"}`); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := Get(OutlookTokenAccount)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != `{"access_token":"x"}` {
		t.Errorf("Get = %q", got)
	}

	if err := Delete(OutlookTokenAccount); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := Get(OutlookTokenAccount); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after Delete: %v, want ErrNotFound", err)
	}
	if err := Delete(OutlookTokenAccount); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete: %v, want ErrNotFound", err)
	}
}

func TestSetEmpty(t *testing.T) {
	gokeyring.MockInit()
	if err := Set(PostgresPasswordAccount, ""); err == nil {
		t.Error("Set with empty secret should fail")
	}
}

func TestPostgresPassword(t *testing.T) {
	gokeyring.MockInit()

	pw, err := PostgresPassword()
	if err != nil || pw != "" {
		t.Fatalf("PostgresPassword with nothing stored = %q, %v", pw, err)
	}

	if err := Set(PostgresPasswordAccount, "hunter2"); err != nil {
		t.Fatal(err)
	}
	pw, err = PostgresPassword()
	if err != nil || pw != "hunter2" {
		t.Errorf("PostgresPassword = %q, %v", pw, err)
	}
}

func TestIsAvailableWithMock(t *testing.T) {
	gokeyring.MockInit()
	if !IsAvailable() {
		t.Error("mock keyring should be available")
	}
}

func TestUnavailableKeyring(t *testing.T) {
	gokeyring.MockInitWithError(errors.New("no dbus"))
	if _, err := Get(OutlookTokenAccount); !errors.Is(err, ErrKeyringUnavailable) {
		t.Errorf("Get = %v, want ErrKeyringUnavailable", err)
	}
	if IsAvailable() {
		t.Error("IsAvailable should be false when the backend errors")
	}
}
