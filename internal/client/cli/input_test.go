package cli

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rdr(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("hello world\n"), "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
	assert.Contains(t, out.String(), "Name?")
}

func TestGetSimpleText_EOFReturnsPartialLine(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("lastline"), "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "lastline", got)
}

func TestGetOptionalText_EmptyKeepsFallback(t *testing.T) {
	var out bytes.Buffer
	got, err := GetOptionalText(rdr("\n"), "Name", "current", &out)
	require.NoError(t, err)
	assert.Equal(t, "current", got)
	assert.Contains(t, out.String(), "[current]")
}

func TestGetOptionalText_AnswerOverridesFallback(t *testing.T) {
	var out bytes.Buffer
	got, err := GetOptionalText(rdr("fresh\n"), "Name", "current", &out)
	require.NoError(t, err)
	assert.Equal(t, "fresh", got)
}

func TestGetPassword(t *testing.T) {
	old := readPassword
	defer func() { readPassword = old }()
	readPassword = func(int) ([]byte, error) { return []byte("secret1"), nil }

	var out bytes.Buffer
	got, err := GetPassword("Password", &out)
	require.NoError(t, err)
	assert.Equal(t, "secret1", got)
	assert.Contains(t, out.String(), "Password: ")
}

func TestGetPassword_Error(t *testing.T) {
	old := readPassword
	defer func() { readPassword = old }()
	readPassword = func(int) ([]byte, error) { return nil, errors.New("boom") }

	var out bytes.Buffer
	_, err := GetPassword("Password", &out)
	require.Error(t, err)
}
