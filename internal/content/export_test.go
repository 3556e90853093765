package content_test

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/Telesphore-Uwabera/DigLearners-sub001/internal/content"
)

func TestWriteXLSX(t *testing.T) {
	items := []content.Item{
		{ID: "a", Title: "Mouse Basics", Difficulty: "beginner", GradeLevel: 1, AgeGroup: "6-8", PointsReward: 10, EstimatedTime: 5},
		{ID: "c", Title: "Safe Passwords", Difficulty: "medium"},
	}

	var buf bytes.Buffer
	if err := content.WriteXLSX(&buf, items); err != nil {
		t.Fatalf("WriteXLSX() error = %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Catalog")
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(rows))
	}
	if rows[0][0] != "ID" || rows[1][1] != "Mouse Basics" || rows[1][6] != "1" {
		t.Errorf("unexpected rows: %v", rows)
	}
	if rows[2][6] != "" {
		t.Errorf("ungraded item grade cell = %q, want empty", rows[2][6])
	}
}
