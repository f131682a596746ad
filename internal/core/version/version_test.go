package version

import "testing"

func TestInfo(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })
	Version = "v1.2.3"

	bi := Info("sprintly-api")
	if bi.Service != "sprintly-api" || bi.Version != "v1.2.3" || bi.Commit != Commit || bi.Date != Date {
		t.Fatalf("Info = %+v", bi)
	}
}
