// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package validator

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/yeetrun/cmdop/pkg/cmdop"
)

func ptr(s string) *string { return &s }

func TestValidators(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f.txt")
	if err := os.WriteFile(file, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	missing := filepath.Join(dir, "missing")
	semverAny, err := Semver("")
	if err != nil {
		t.Fatal(err)
	}
	semverRange, err := Semver(">= 1.2, < 2")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		v       cmdop.Validator
		value   *string
		wantErr bool
	}{
		{"int ok", Int(), ptr("42"), false},
		{"int negative", Int(), ptr("-3"), false},
		{"int bad", Int(), ptr("4x"), true},
		{"int nil", Int(), nil, true},
		{"int range ok", IntRange(1, 10), ptr("10"), false},
		{"int range low", IntRange(1, 10), ptr("0"), true},
		{"int range high", IntRange(1, 10), ptr("11"), true},
		{"length ok", Length(2, 4), ptr("abc"), false},
		{"length short", Length(2, 4), ptr("a"), true},
		{"length long", Length(2, 4), ptr("abcde"), true},
		{"length runes", Length(0, 2), ptr("äö"), false},
		{"length nil", Length(2, 0), nil, false},
		{"regexp ok", MustRegexp(`[a-z]+`), ptr("abc"), false},
		{"regexp anchored", MustRegexp(`[a-z]+`), ptr("abc1"), true},
		{"regexp nil", MustRegexp(`[a-z]+`), nil, false},
		{"path exists", Path(PathExists), ptr(file), false},
		{"path missing", Path(PathExists), ptr(missing), true},
		{"path absent", Path(PathAbsent), ptr(missing), false},
		{"path absent exists", Path(PathAbsent), ptr(file), true},
		{"path dir", Path(PathDir), ptr(dir), false},
		{"path dir is file", Path(PathDir), ptr(file), true},
		{"path file", Path(PathFile), ptr(file), false},
		{"path file is dir", Path(PathFile), ptr(dir), true},
		{"path nil", Path(PathExists), nil, true},
		{"oneof ok", OneOf("tcp", "udp"), ptr("udp"), false},
		{"oneof bad", OneOf("tcp", "udp"), ptr("icmp"), true},
		{"semver ok", semverAny, ptr("1.2.3"), false},
		{"semver bad", semverAny, ptr("one"), true},
		{"semver in range", semverRange, ptr("1.4.0"), false},
		{"semver out of range", semverRange, ptr("2.0.0"), true},
		{"cron ok", Cron(), ptr("*/15 9-17 * 1,7 1-5"), false},
		{"cron fields", Cron(), ptr("* * * *"), true},
		{"cron range", Cron(), ptr("60 * * * *"), true},
		{"cron reversed", Cron(), ptr("* 5-2 * * *"), true},
		{"cron step", Cron(), ptr("*/0 * * * *"), true},
		{"all ok", All(Int(), Length(1, 2)), ptr("12"), false},
		{"all second fails", All(Int(), Length(1, 2)), ptr("123"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.v.Validate(cmdop.Node{}, tt.value, 0)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRegexpInvalid(t *testing.T) {
	if _, err := Regexp("("); err == nil {
		t.Fatal("Regexp accepted an invalid pattern")
	}
	if _, err := Semver(">>> nope"); err == nil {
		t.Fatal("Semver accepted an invalid constraint")
	}
}

func TestValidatorInEngine(t *testing.T) {
	e := cmdop.New()
	port := cmdop.Must(e.AddOption("port", cmdop.WithValidator(IntRange(1, 65535))))
	_, err := e.Parse([]string{"--port=http"}, cmdop.Merge)
	var verr *cmdop.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Parse error = %v, want ValidationError", err)
	}
	want := "[Int] Validation of item 'port' with value 'http' failed: failed to parse value as integer"
	if got := verr.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if _, err := e.Parse([]string{"--port=8080"}, cmdop.Overwrite); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if v, _ := port.Value(); v != "8080" {
		t.Errorf("port = %q, want 8080", v)
	}
}
