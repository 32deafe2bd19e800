package core

import (
	"sort"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

// TestDomainPackageStaysDependencyFree ensures pkg/domain imports nothing
// from the rest of the module or from third-party code, so it can be
// consumed anywhere without dragging infrastructure along.
func TestDomainPackageStaysDependencyFree(t *testing.T) {
	cfg := &packages.Config{Mode: packages.NeedName | packages.NeedImports}
	pkgs, err := packages.Load(cfg, "rimborsikm/pkg/domain")
	if err != nil {
		t.Fatalf("load packages: %v", err)
	}

	var violations []string
	for _, pkg := range pkgs {
		for importPath := range pkg.Imports {
			if strings.Contains(importPath, ".") {
				violations = append(violations, pkg.PkgPath+": "+importPath)
			}
		}
	}
	if len(violations) > 0 {
		sort.Strings(violations)
		for _, v := range violations {
			t.Errorf("forbidden non-stdlib import in domain package: %s", v)
		}
		t.Fatalf("found %d forbidden imports", len(violations))
	}
}

// TestOnlySlotAwarePackagesImportSlotDrivers ensures slot backends stay
// behind the slot interface: only the slot package itself, the persistence
// adapter, and this service package may import it.
func TestOnlySlotAwarePackagesImportSlotDrivers(t *testing.T) {
	slotPath := "rimborsikm/internal/slot"
	allowed := map[string]bool{
		"rimborsikm/internal/slot":    true,
		"rimborsikm/internal/persist": true,
		"rimborsikm/internal/core":    true,
	}

	cfg := &packages.Config{Mode: packages.NeedName | packages.NeedImports, Tests: true}
	pkgs, err := packages.Load(cfg, "rimborsikm/...")
	if err != nil {
		t.Fatalf("load packages: %v", err)
	}

	seen := make(map[string]struct{})
	for _, pkg := range pkgs {
		base := strings.TrimSuffix(strings.TrimSuffix(pkg.PkgPath, "_test"), ".test")
		if allowed[base] {
			continue
		}
		for importPath := range pkg.Imports {
			if importPath == slotPath {
				seen[pkg.PkgPath+": "+importPath] = struct{}{}
			}
		}
	}

	if len(seen) > 0 {
		violations := make([]string, 0, len(seen))
		for v := range seen {
			violations = append(violations, v)
		}
		sort.Strings(violations)
		for _, v := range violations {
			t.Errorf("forbidden import of slot package: %s", v)
		}
		t.Fatalf("found %d forbidden imports of slot package", len(violations))
	}
}
