package keywords

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestParseOverlaysDefaults(t *testing.T) {
	data := []byte(`
version: custom-2
customer:
  - 화주명
  - 고객사명
`)
	table, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if table.Version != "custom-2" {
		t.Errorf("Version = %q, want %q", table.Version, "custom-2")
	}
	if len(table.Customer) != 2 || table.Customer[0] != "화주명" {
		t.Errorf("Customer = %q", table.Customer)
	}
	if len(table.PickupDate) != len(Default().PickupDate) {
		t.Error("sections absent from the file should keep their defaults")
	}
}

func TestParseRejectsEmptySection(t *testing.T) {
	_, err := Parse([]byte("tonnage: []\n"))
	if err == nil || !strings.Contains(err.Error(), "tonnage") {
		t.Errorf("Parse with empty section = %v, want tonnage error", err)
	}
}

func TestParseInvalidYAML(t *testing.T) {
	if _, err := Parse([]byte("customer: [")); err == nil {
		t.Error("Parse should fail on invalid YAML")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keywords.yaml")
	if err := os.WriteFile(path, []byte("version: file-1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	table, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if table.Version != "file-1" {
		t.Errorf("Version = %q, want %q", table.Version, "file-1")
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load of a missing file should fail")
	}
}

func TestCompile(t *testing.T) {
	c := Default().Compile()
	if c.Version != "builtin-1" {
		t.Errorf("Version = %q", c.Version)
	}
	for _, w := range []string{"상차일", "하차지 주소", "요청톤수", "비고", "고객사명", "착"} {
		if !c.All.Has(w) {
			t.Errorf("All is missing %q", w)
		}
	}
	if !c.DeliveryContactFallback.MatchLine("담당CL : 홍길동") {
		t.Error("keywords should match regardless of case")
	}
}
