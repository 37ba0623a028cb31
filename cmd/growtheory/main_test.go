package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigDirFromArgs(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{nil, ""},
		{[]string{"dashboard"}, ""},
		{[]string{"--config", "/tmp/gt", "status"}, "/tmp/gt"},
		{[]string{"status", "--config=/etc/gt"}, "/etc/gt"},
		{[]string{"--config"}, ""},
		{[]string{"analyze", "--", "--config", "x"}, ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, configDirFromArgs(tt.args), "%v", tt.args)
	}
}
