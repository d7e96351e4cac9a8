//nolint:revive // types is a standard Go package name pattern
package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApplicationData_Validate(t *testing.T) {
	tests := []struct {
		name    string
		data    ApplicationData
		wantErr bool
	}{
		{name: "valid", data: ApplicationData{FullName: "Jane Doe", Company: "Acme", Position: "Engineer"}},
		{name: "valid without name", data: ApplicationData{Company: "Acme", Position: "Engineer"}},
		{name: "missing company", data: ApplicationData{Position: "Engineer"}, wantErr: true},
		{name: "missing position", data: ApplicationData{Company: "Acme"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.data.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "required")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestApplicationData_OutputBaseName(t *testing.T) {
	now := time.Date(2024, time.May, 14, 12, 30, 0, 0, time.Local)

	tests := []struct {
		name string
		data ApplicationData
		want string
	}{
		{
			name: "full name",
			data: ApplicationData{FullName: "Doe, Jane", Company: "Acme Corp", Position: "Engineer"},
			want: "Doe, Jane - Acme Corp - Engineer",
		},
		{
			name: "strips separators",
			data: ApplicationData{FullName: "Jane Doe", Company: "A/B;C", Position: "C\\C++ Developer"},
			want: "Jane Doe - ABC - CC++ Developer",
		},
		{
			name: "no full name",
			data: ApplicationData{Company: "Acme", Position: "Analyst"},
			want: "Acme - Analyst",
		},
		{
			name: "test position",
			data: ApplicationData{FullName: "Jane Doe", Company: "Acme", Position: "test"},
			want: "TEST-2024-05-14-1230",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.data.OutputBaseName(now))
		})
	}
}
