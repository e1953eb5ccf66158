package jsonbody

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, body string) Object {
	t.Helper()
	obj, err := Decode(strings.NewReader(body))
	require.NoError(t, err)
	return obj
}

func TestMandatoryMissing(t *testing.T) {
	obj := decode(t, `{"ProviderId":"DE*ICE"}`)

	_, err := Mandatory(obj, "eMAId", String)
	var fieldErr *FieldError
	require.True(t, errors.As(err, &fieldErr))
	assert.Equal(t, "eMAId", fieldErr.Path)
	assert.Equal(t, "Missing JSON property 'eMAId'!", fieldErr.Error())
}

func TestMandatoryCaseInsensitiveFallback(t *testing.T) {
	obj := decode(t, `{"emaid":"DE*ICE*C12345678*X"}`)
	v, err := Mandatory(obj, "eMAId", String)
	require.NoError(t, err)
	assert.Equal(t, "DE*ICE*C12345678*X", v)
}

func TestOptional(t *testing.T) {
	obj := decode(t, `{"Duration":900,"StartTime":"2026-03-01T12:00:00Z","Empty":null}`)

	d, present, err := Optional(obj, "Duration", Duration)
	require.NoError(t, err)
	assert.True(t, present)
	assert.Equal(t, 15*time.Minute, d)

	ts, _, err := Optional(obj, "StartTime", Time)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), ts)

	_, present, err = Optional(obj, "Empty", String)
	require.NoError(t, err)
	assert.False(t, present)

	_, present, err = Optional(obj, "Nope", String)
	require.NoError(t, err)
	assert.False(t, present)
}

func TestSectionPaths(t *testing.T) {
	obj := decode(t, `{"AuthorizedIds":{"PINs":["1234", 5]}}`)

	section, present, err := obj.Section("AuthorizedIds")
	require.NoError(t, err)
	require.True(t, present)

	_, _, err = Optional(section, "PINs", List(String))
	var fieldErr *FieldError
	require.True(t, errors.As(err, &fieldErr))
	assert.Equal(t, "AuthorizedIds.PINs", fieldErr.Path)
	assert.Equal(t, "Invalid JSON property 'AuthorizedIds.PINs'!", fieldErr.Message)

	_, err = Mandatory(section, "AuthTokens", List(String))
	assert.EqualError(t, err, "Missing JSON property 'AuthorizedIds.AuthTokens'!")
}

func TestSectionWrongType(t *testing.T) {
	obj := decode(t, `{"IntendedCharging":"soon"}`)
	_, present, err := obj.Section("IntendedCharging")
	assert.True(t, present)
	assert.EqualError(t, err, "Invalid JSON property 'IntendedCharging'!")
}

func TestViaReportsParserError(t *testing.T) {
	obj := decode(t, `{"Id":"bad id"}`)
	parse := Via(func(s string) (string, error) {
		if strings.Contains(s, " ") {
			return "", errors.New("no blanks allowed")
		}
		return s, nil
	})
	_, err := Mandatory(obj, "Id", parse)
	assert.EqualError(t, err, "Invalid JSON property 'Id': no blanks allowed!")
}

func TestDecode(t *testing.T) {
	obj, err := Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.False(t, obj.Has("anything"))

	_, err = Decode(strings.NewReader("[1,2]"))
	assert.EqualError(t, err, "Invalid JSON request body!")

	_, err = Decode(strings.NewReader("{"))
	assert.Error(t, err)
}

func TestDuration(t *testing.T) {
	cases := map[any]time.Duration{
		"90": 90 * time.Second,
		"2m": 2 * time.Minute,
		30.0: 30 * time.Second,
	}
	for raw, want := range cases {
		got, err := Duration(raw)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := Duration("-5m")
	assert.Error(t, err)
	_, err = Duration(true)
	assert.Error(t, err)

	for _, raw := range []any{"NaN", "Inf", "-Inf", 1e300, "1e19"} {
		_, err := Duration(raw)
		assert.Error(t, err, "%v", raw)
	}
}

func TestDurationFieldErrorNamesField(t *testing.T) {
	obj := decode(t, `{"Duration":"NaN"}`)
	var r Reader
	ReadOptional(&r, obj, "Duration", Duration)
	require.Error(t, r.Err())
	assert.Contains(t, r.Err().Error(), "Duration")
}

func TestReaderKeepsFirstError(t *testing.T) {
	obj := decode(t, `{"b":"x","c":1}`)
	var r Reader

	_ = Read(&r, obj, "a", String)
	_ = Read(&r, obj, "c", String)
	v, present := ReadOptional(&r, obj, "b", String)

	assert.EqualError(t, r.Err(), "Missing JSON property 'a'!")
	assert.Empty(t, v)
	assert.False(t, present)
}

func TestReaderSection(t *testing.T) {
	obj := decode(t, `{"IntendedCharging":{"Plan":"fast"}}`)
	var r Reader

	section, present := r.Section(obj, "IntendedCharging")
	require.True(t, present)
	plan, ok := ReadOptional(&r, section, "Plan", String)
	require.NoError(t, r.Err())
	assert.True(t, ok)
	assert.Equal(t, "fast", plan)
}
