package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantErr    error
		wantObject bool
	}{
		{name: "object", raw: `{"action":"consult"}`, wantObject: true},
		{name: "empty object", raw: `{}`, wantObject: true},
		{name: "plain text", raw: "not json", wantErr: ErrUnparseable},
		{name: "truncated json", raw: `{"action":`, wantErr: ErrUnparseable},
		{name: "empty string", raw: "", wantErr: ErrUnparseable},
		{name: "scalar number", raw: "42"},
		{name: "scalar string", raw: `"привет"`},
		{name: "array", raw: `[1,2,3]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Normalize(tt.raw)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.raw, p.Raw)
			if tt.wantObject {
				assert.NotNil(t, p.Object)
			} else {
				assert.Nil(t, p.Object)
			}
		})
	}
}
