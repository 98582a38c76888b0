package service

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pesio-ai/be-lit-backoffice/internal/domain"
)

func TestField_UnmarshalJSON(t *testing.T) {
	var in struct {
		Absent  Field[string] `json:"absent"`
		Null    Field[string] `json:"null"`
		Present Field[int64]  `json:"present"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"null": null, "present": 42}`), &in))

	assert.False(t, in.Absent.Set)
	assert.True(t, in.Null.Set)
	assert.True(t, in.Null.Null)
	assert.False(t, in.Null.Present())
	assert.True(t, in.Present.Present())
	assert.Equal(t, int64(42), in.Present.Value)
}

func TestField_ApplyPtr(t *testing.T) {
	current := int64(7)
	dst := &current

	Field[int64]{}.applyPtr(&dst)
	require.NotNil(t, dst)
	assert.Equal(t, int64(7), *dst)

	Val(int64(9)).applyPtr(&dst)
	require.NotNil(t, dst)
	assert.Equal(t, int64(9), *dst)

	Null[int64]().applyPtr(&dst)
	assert.Nil(t, dst)
}

func TestApplyDate(t *testing.T) {
	tests := []struct {
		name    string
		in      Field[string]
		wantNil bool
		wantErr bool
		wantDay int
	}{
		{name: "absent keeps value", in: Field[string]{}, wantDay: 1},
		{name: "date only", in: Val("2024-05-17"), wantDay: 17},
		{name: "timestamp drops time", in: Val("2024-05-18T23:10:00Z"), wantDay: 18},
		{name: "null clears", in: Null[string](), wantNil: true},
		{name: "blank clears", in: Val(" "), wantNil: true},
		{name: "garbage", in: Val("next tuesday"), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			initial := mustDate(t, "2024-01-01")
			dst := &initial

			err := applyDate("dueDate", tt.in, &dst)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, dst)
				return
			}
			require.NotNil(t, dst)
			assert.Equal(t, tt.wantDay, dst.Day())
			assert.Zero(t, dst.Hour())
		})
	}
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := domain.ParseCalendarDate(s)
	require.NoError(t, err)
	return d
}
