package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	var out bytes.Buffer
	cmd := newHashPasswordCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"password123", "--cost", "4"})

	require.NoError(t, cmd.Execute())

	hash := strings.TrimSpace(out.String())
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("password123")))
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, 4, cost)
}

func TestHashPassword_RequiresArgument(t *testing.T) {
	cmd := newHashPasswordCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(nil)

	assert.Error(t, cmd.Execute())
}

type fakeSeeder struct {
	created bool
	err     error
	email   string
	name    string
}

func (f *fakeSeeder) EnsureAdmin(_ context.Context, email, password, name string) (bool, error) {
	f.email, f.name = email, name
	return f.created, f.err
}

func seedCmd(seeder *fakeSeeder, openErr error) (*bytes.Buffer, func(args ...string) error, *bool) {
	var out bytes.Buffer
	closed := false
	open := func(context.Context, int) (adminSeeder, func(), error) {
		if openErr != nil {
			return nil, nil, openErr
		}
		return seeder, func() { closed = true }, nil
	}
	run := func(args ...string) error {
		cmd := newSeedAdminCmd(slog.New(slog.NewTextHandler(io.Discard, nil)), open)
		cmd.SetOut(&out)
		cmd.SetErr(io.Discard)
		cmd.SetArgs(args)
		return cmd.ExecuteContext(context.Background())
	}
	return &out, run, &closed
}

func TestSeedAdmin(t *testing.T) {
	seeder := &fakeSeeder{created: true}
	out, run, closed := seedCmd(seeder, nil)

	require.NoError(t, run("--email", "admin@veera.com", "--password", "password123"))

	assert.Equal(t, "admin@veera.com", seeder.email)
	assert.Equal(t, "Admin User", seeder.name)
	assert.Equal(t, "created admin admin@veera.com\n", out.String())
	assert.True(t, *closed)
}

func TestSeedAdmin_Existing(t *testing.T) {
	seeder := &fakeSeeder{}
	out, run, _ := seedCmd(seeder, nil)

	require.NoError(t, run("--email", "admin@veera.com", "--password", "password123", "--name", "Ops Admin"))

	assert.Equal(t, "Ops Admin", seeder.name)
	assert.Equal(t, "updated admin admin@veera.com\n", out.String())
}

func TestSeedAdmin_Errors(t *testing.T) {
	_, run, _ := seedCmd(&fakeSeeder{}, nil)
	assert.Error(t, run("--email", "admin@veera.com"))

	_, run, _ = seedCmd(&fakeSeeder{}, errors.New("dial tcp: refused"))
	assert.ErrorContains(t, run("--email", "a@b.c", "--password", "pw"), "refused")

	boom := errors.New("insert failed")
	_, run, closed := seedCmd(&fakeSeeder{err: boom}, nil)
	assert.ErrorIs(t, run("--email", "a@b.c", "--password", "pw"), boom)
	assert.True(t, *closed)
}
