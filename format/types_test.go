package format

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSampleRole_String(t *testing.T) {
	tests := []struct {
		role SampleRole
		want string
	}{
		{RoleUnused, "Unused"},
		{RoleBlank, "Blank"},
		{RoleControl, "Control"},
		{RoleStandard, "Standard"},
		{RoleUnknown, "Unknown"},
		{SampleRole(0xff), "Invalid"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			require.Equal(t, tt.want, tt.role.String())
		})
	}
}

func TestSampleRole_Predicates(t *testing.T) {
	for _, r := range Roles {
		require.True(t, r.Valid(), r.String())
	}
	require.False(t, SampleRole(5).Valid())

	require.True(t, RoleStandard.Grouped())
	require.True(t, RoleUnknown.Grouped())
	require.False(t, RoleBlank.Grouped())
	require.False(t, RoleControl.Grouped())
	require.False(t, RoleUnused.Grouped())
}

func TestParseSampleRole(t *testing.T) {
	for _, r := range Roles {
		got, ok := ParseSampleRole(r.String())
		require.True(t, ok)
		require.Equal(t, r, got)
	}

	_, ok := ParseSampleRole("standard")
	require.False(t, ok, "role names are case-sensitive")
}

func TestSampleRole_JSON(t *testing.T) {
	data, err := json.Marshal([]SampleRole{RoleBlank, RoleUnknown})
	require.NoError(t, err)
	require.JSONEq(t, `["Blank","Unknown"]`, string(data))

	var roles []SampleRole
	require.NoError(t, json.Unmarshal(data, &roles))
	require.Equal(t, []SampleRole{RoleBlank, RoleUnknown}, roles)

	var role SampleRole
	err = json.Unmarshal([]byte(`"Sample"`), &role)
	var unknown *UnknownRoleError
	require.ErrorAs(t, err, &unknown)
	require.Equal(t, "Sample", unknown.Name)
}

func TestCompressionType(t *testing.T) {
	tests := []struct {
		name string
		want CompressionType
	}{
		{"none", CompressionNone},
		{"ZSTD", CompressionZstd},
		{"s2", CompressionS2},
		{"Lz4", CompressionLZ4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseCompressionType(tt.name)
			require.True(t, ok)
			require.Equal(t, tt.want, got)
		})
	}

	_, ok := ParseCompressionType("gzip")
	require.False(t, ok)
	require.Equal(t, "Unknown", CompressionType(0).String())
}
