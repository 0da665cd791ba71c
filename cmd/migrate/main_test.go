package main

import "testing"

func TestParseCommand(t *testing.T) {
	tests := []struct {
		args    []string
		want    command
		wantErr bool
	}{
		{nil, command{name: "up"}, false},
		{[]string{"down"}, command{name: "down"}, false},
		{[]string{"version"}, command{name: "version"}, false},
		{[]string{"force", "3"}, command{name: "force", version: 3}, false},
		{[]string{"force"}, command{}, true},
		{[]string{"force", "x"}, command{}, true},
		{[]string{"sideways"}, command{}, true},
	}
	for _, tt := range tests {
		got, err := parseCommand(tt.args)
		if (err != nil) != tt.wantErr {
			t.Fatalf("parseCommand(%v) error = %v, wantErr %v", tt.args, err, tt.wantErr)
		}
		if !tt.wantErr && got != tt.want {
			t.Fatalf("parseCommand(%v) = %+v, want %+v", tt.args, got, tt.want)
		}
	}
}
