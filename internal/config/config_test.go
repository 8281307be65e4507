package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Encoding != "utf-8-sig" || c.OutputDecimal != "." || c.OutputSuffix != "_com_imc" {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if c.SampleChars != 5000 || c.DecimalSampleRows != 200 {
		t.Fatalf("unexpected sample defaults: %+v", c)
	}
	if c.BMIColumn != "bmi" || c.CategoryColumn != "category" {
		t.Fatalf("unexpected column defaults: %+v", c)
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	body := "output_decimal: \",\"\nbmi_column: imc\nheight_synonyms:\n  - alt\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("BMICSV_BMI_COLUMN", "indice")
	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.OutputDecimal != "," {
		t.Fatalf("file value ignored: %+v", c)
	}
	if c.BMIColumn != "indice" {
		t.Fatalf("env should beat file, got %q", c.BMIColumn)
	}
	if len(c.HeightSynonyms) != 1 || c.HeightSynonyms[0] != "alt" {
		t.Fatalf("synonyms: %v", c.HeightSynonyms)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

func TestSaveThenLoad(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	c, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	c.OutputSuffix = "_bmi"
	c.PreviewRows = 5
	if err := Save(c, ""); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(home, ".bmicsv", "config.yaml")); err != nil {
		t.Fatalf("config not written: %v", err)
	}
	again, err := Load("")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if again.OutputSuffix != "_bmi" || again.PreviewRows != 5 {
		t.Fatalf("saved values lost: %+v", again)
	}
}

func TestDefaultsMatchLoad(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	loaded, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	d := Defaults()
	if d.Encoding != loaded.Encoding || d.OutputSuffix != loaded.OutputSuffix || d.SampleChars != loaded.SampleChars {
		t.Fatalf("defaults %+v differ from load %+v", d, loaded)
	}
}
