package lang

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"src/app.py", "Python"},
		{"lib/index.JS", "JavaScript"},
		{"main.go", "Go"},
		{"schema.sql", "SQL"},
		{"deploy.yml", "YAML"},
		{"deploy.yaml", "YAML"},
		{"vec.hpp", "C++"},
		{"Makefile", "Unknown"},
		{"noext", "Unknown"},
		{"archive.tar.gz", "Unknown"},
	}
	for _, tt := range tests {
		if got := Detect(tt.path); got != tt.want {
			t.Errorf("Detect(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestExtractPatternsLineNumbers(t *testing.T) {
	content := "import os\n  os.system(cmd)\npassword = secret\n"

	findings := ExtractPatterns(content, nil)

	sec := findings[CategorySecurityRisks]
	if len(sec) != 2 {
		t.Fatalf("security matches = %d, want 2: %v", len(sec), sec)
	}
	if sec[0].LineNumber != 2 || sec[0].LineContent != "os.system(cmd)" {
		t.Errorf("first match = %+v, want line 2 with trimmed content", sec[0])
	}
	if sec[1].LineNumber != 3 {
		t.Errorf("second match line = %d, want 3", sec[1].LineNumber)
	}
}

func TestExtractPatternsMultipleOnOneLine(t *testing.T) {
	content := `eval(exec(x))`

	findings := ExtractPatterns(content, nil)

	if got := len(findings[CategorySecurityRisks]); got != 2 {
		t.Errorf("both eval and exec should be recorded for one line, got %d", got)
	}
}

func TestExtractPatternsAlwaysReturnsCategories(t *testing.T) {
	findings := ExtractPatterns("nothing risky here", nil)
	for _, cat := range Categories {
		if findings[cat] == nil {
			t.Errorf("category %s must map to an empty slice, not nil", cat)
		}
		if len(findings[cat]) != 0 {
			t.Errorf("category %s should be empty, got %v", cat, findings[cat])
		}
	}
}

func TestExtractPatternsWithExtras(t *testing.T) {
	extras := ExtraPatterns{
		CategorySecurityRisks: {`md5\s*\(`},
		"custom_checks":       {`print\s*\(`},
		"broken":              {`[unclosed`},
	}

	findings := ExtractPatterns("h = md5(data)\nprint(h)", extras)

	if len(findings[CategorySecurityRisks]) != 1 {
		t.Errorf("extra pattern in a known category should match")
	}
	if len(findings["custom_checks"]) != 1 {
		t.Errorf("novel categories should appear in the results")
	}
	if _, ok := findings["broken"]; ok {
		t.Errorf("a category with only invalid patterns should be absent")
	}
}

func TestLoadExtraPatterns(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "patterns.json")
	if err := os.WriteFile(path, []byte(`{"security_risks": ["md5\\s*\\("]}`), 0o644); err != nil {
		t.Fatal(err)
	}

	extras, err := LoadExtraPatterns(path)
	if err != nil {
		t.Fatalf("LoadExtraPatterns: %v", err)
	}
	if len(extras[CategorySecurityRisks]) != 1 {
		t.Errorf("extras = %v", extras)
	}
}

func TestLoadExtraPatternsEmptyPath(t *testing.T) {
	extras, err := LoadExtraPatterns("")
	if err != nil || extras != nil {
		t.Errorf("empty path should be a no-op, got %v, %v", extras, err)
	}
}

func TestLoadExtraPatternsInvalidRegex(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "patterns.json")
	if err := os.WriteFile(path, []byte(`{"security_risks": ["[unclosed"]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadExtraPatterns(path); err == nil {
		t.Errorf("invalid regex must fail at load time")
	}
}

func TestLoadExtraPatternsMissingFile(t *testing.T) {
	if _, err := LoadExtraPatterns(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Errorf("a named but missing file is an error")
	}
}
