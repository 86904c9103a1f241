package contacts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestField checks that the base field stores and replaces values without validation.
func TestField(t *testing.T) {
	f := NewField("")
	assert.Equal(t, "", f.Value())
	f.Set("anything")
	assert.Equal(t, "anything", f.Value())
	assert.Equal(t, "anything", f.String())

	n := NewField(42)
	assert.Equal(t, "42", n.String())
}

// TestName checks that non-empty names are kept unchanged and that an empty name is rejected.
func TestName(t *testing.T) {
	for _, value := range []string{"Ann", "a", " ", "Rudi Völler"} {
		name, err := NewName(value)
		require.NoError(t, err, value)
		assert.Equal(t, value, name.Value())
		assert.Equal(t, value, name.String())
	}

	_, err := NewName("")
	assert.ErrorIs(t, err, ErrValidation)
}

// TestNameEqual checks that names compare by value.
func TestNameEqual(t *testing.T) {
	a, _ := NewName("Ann")
	b, _ := NewName("Ann")
	c, _ := NewName("Bob")
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))

	renamed, err := a.WithValue("Bob")
	require.NoError(t, err)
	assert.True(t, renamed.Equal(c))
	assert.Equal(t, "Ann", a.Value())

	_, err = a.WithValue("")
	assert.ErrorIs(t, err, ErrValidation)
}

// TestPhone checks the phone number rules: exactly ten characters, all of them digits.
func TestPhone(t *testing.T) {
	tests := []struct {
		name  string
		value string
		valid bool
	}{
		{name: "ten digits", value: "0123456789", valid: true},
		{name: "all nines", value: "9999999999", valid: true},
		{name: "empty", value: "", valid: false},
		{name: "nine digits", value: "012345678", valid: false},
		{name: "eleven digits", value: "01234567890", valid: false},
		{name: "ten characters with letters", value: "012345678a", valid: false},
		{name: "ten letters", value: "abcdefghij", valid: false},
		{name: "plus sign", value: "+123456789", valid: false},
		{name: "spaces", value: "012 345 67", valid: false},
		{name: "non-ascii digits", value: "٠١٢٣٤٥٦٧٨٩", valid: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			phone, err := NewPhone(tt.value)
			if tt.valid {
				require.NoError(t, err)
				assert.Equal(t, tt.value, phone.Value())
			} else {
				assert.ErrorIs(t, err, ErrValidation)
			}
		})
	}
}

// TestPhoneWithValue checks that changing a phone number validates the new value.
func TestPhoneWithValue(t *testing.T) {
	phone, err := NewPhone("0123456789")
	require.NoError(t, err)

	changed, err := phone.WithValue("1111111111")
	require.NoError(t, err)
	assert.Equal(t, "1111111111", changed.Value())
	assert.Equal(t, "0123456789", phone.Value())

	_, err = phone.WithValue("abc")
	assert.ErrorIs(t, err, ErrValidation)

	same, _ := NewPhone("0123456789")
	assert.True(t, phone.Equal(same))
	assert.False(t, phone.Equal(changed))
}

// TestBirthday checks parsing of the YYYY-MM-DD format.
func TestBirthday(t *testing.T) {
	b, err := ParseBirthday("1990-05-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(1990, time.May, 1, 0, 0, 0, 0, time.UTC), b.Value())
	assert.Equal(t, "1990-05-01", b.String())

	leap, err := ParseBirthday("2000-02-29")
	require.NoError(t, err)
	assert.Equal(t, time.February, leap.Value().Month())

	invalid := []string{"", "01.05.1990", "1990-13-01", "1990-02-30", "2001-02-29", "1990-5-1", "tomorrow"}
	for _, value := range invalid {
		_, err := ParseBirthday(value)
		assert.ErrorIs(t, err, ErrValidation, value)
	}

	changed, err := b.WithValue("1991-06-02")
	require.NoError(t, err)
	assert.Equal(t, "1991-06-02", changed.String())
	_, err = b.WithValue("02.06.1991")
	assert.ErrorIs(t, err, ErrValidation)
}

// TestNewBirthday checks that the time of day is dropped.
func TestNewBirthday(t *testing.T) {
	b := NewBirthday(time.Date(1969, time.March, 2, 23, 59, 0, 0, time.FixedZone("CET", 3600)))
	assert.Equal(t, "1969-03-02", b.String())
	other, _ := ParseBirthday("1969-03-02")
	assert.True(t, b.Equal(other))
}

// TestBirthdayDaysUntil checks the countdown to the next occurrence of a birthday.
func TestBirthdayDaysUntil(t *testing.T) {
	now := time.Date(2024, time.June, 15, 10, 30, 0, 0, time.Local)
	tests := []struct {
		name     string
		birthday string
		now      time.Time
		want     int
	}{
		{name: "today", birthday: "1990-06-15", now: now, want: 0},
		{name: "tomorrow", birthday: "1990-06-16", now: now, want: 1},
		{name: "yesterday rolls over to next year", birthday: "1990-06-14", now: now, want: 364},
		{name: "end of year", birthday: "1990-12-31", now: now, want: 199},
		{name: "new year", birthday: "1990-01-01", now: now, want: 200},
		{name: "leap day in leap year", birthday: "2000-02-29", now: time.Date(2024, time.February, 28, 0, 0, 0, 0, time.UTC), want: 1},
		{name: "leap day in common year", birthday: "2000-02-29", now: time.Date(2023, time.February, 28, 0, 0, 0, 0, time.UTC), want: 1},
		{name: "leap day on first of march", birthday: "2000-02-29", now: time.Date(2023, time.March, 1, 0, 0, 0, 0, time.UTC), want: 0},
		{name: "leap day passed", birthday: "2000-02-29", now: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), want: 365},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := ParseBirthday(tt.birthday)
			require.NoError(t, err)
			assert.Equal(t, tt.want, b.DaysUntil(tt.now))
		})
	}
}
