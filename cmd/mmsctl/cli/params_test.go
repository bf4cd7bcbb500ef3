// Copyright 2026 The MMS Console Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestBindFlags_BasicTypes(t *testing.T) {
	type params struct {
		Name     string        `flag:"name" desc:"the name"`
		Yes      bool          `flag:"yes,y" desc:"skip confirmation"`
		Limit    int           `flag:"limit" desc:"number of rows"`
		Offset   int64         `flag:"offset" desc:"row offset"`
		Timeout  time.Duration `flag:"timeout" desc:"request timeout"`
		Fields   []string      `flag:"fields" desc:"columns to show"`
		Untagged string
	}

	var p params
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	if err := BindFlags(&p, flagSet); err != nil {
		t.Fatalf("BindFlags: %v", err)
	}
	err := flagSet.Parse([]string{
		"--name", "acme",
		"-y",
		"--limit", "42",
		"--offset", "1099511627776",
		"--timeout", "30s",
		"--fields", "id,name,slug",
	})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if p.Name != "acme" {
		t.Errorf("Name = %q, want %q", p.Name, "acme")
	}
	if !p.Yes {
		t.Error("Yes = false, want true")
	}
	if p.Limit != 42 {
		t.Errorf("Limit = %d, want 42", p.Limit)
	}
	if p.Offset != 1099511627776 {
		t.Errorf("Offset = %d, want 1099511627776", p.Offset)
	}
	if p.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", p.Timeout)
	}
	if strings.Join(p.Fields, ",") != "id,name,slug" {
		t.Errorf("Fields = %v, want [id name slug]", p.Fields)
	}
	if flagSet.Lookup("untagged") != nil {
		t.Error("untagged field was bound")
	}
}

func TestBindFlags_Defaults(t *testing.T) {
	type params struct {
		Status  string        `flag:"status" default:"ACTIVE"`
		Limit   int           `flag:"limit" default:"20"`
		Timeout time.Duration `flag:"timeout" default:"10s"`
		Active  bool          `flag:"active" default:"true"`
		Fields  []string      `flag:"fields" default:"id,name"`
	}

	var p params
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	if err := BindFlags(&p, flagSet); err != nil {
		t.Fatalf("BindFlags: %v", err)
	}
	if err := flagSet.Parse(nil); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.Status != "ACTIVE" || p.Limit != 20 || p.Timeout != 10*time.Second || !p.Active || len(p.Fields) != 2 {
		t.Errorf("defaults not applied: %+v", p)
	}
}

func TestBindFlags_EmbeddedStructs(t *testing.T) {
	type params struct {
		ConnectionParams
		JSONOutput
		Slug string `flag:"slug"`
	}

	var p params
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	if err := BindFlags(&p, flagSet); err != nil {
		t.Fatalf("BindFlags: %v", err)
	}
	if err := flagSet.Parse([]string{"--server", "http://mms.test", "--json", "--slug", "acme"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.ServerURL != "http://mms.test" {
		t.Errorf("ServerURL = %q", p.ServerURL)
	}
	if !p.OutputJSON {
		t.Error("OutputJSON = false")
	}
	if p.EnvFile != ".env" {
		t.Errorf("EnvFile default = %q, want .env", p.EnvFile)
	}
	if p.Slug != "acme" {
		t.Errorf("Slug = %q", p.Slug)
	}
}

func TestBindFlags_Errors(t *testing.T) {
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	if err := BindFlags(struct{}{}, flagSet); err == nil {
		t.Error("expected error for a non-pointer")
	}

	type badDefault struct {
		Limit int `flag:"limit" default:"many"`
	}
	if err := BindFlags(&badDefault{}, flagSet); err == nil || !strings.Contains(err.Error(), "--limit") {
		t.Errorf("bad default: err = %v", err)
	}

	type unsupported struct {
		Ratio float64 `flag:"ratio"`
	}
	if err := BindFlags(&unsupported{}, pflag.NewFlagSet("test", pflag.ContinueOnError)); err == nil {
		t.Error("expected error for an unsupported type")
	}
}
