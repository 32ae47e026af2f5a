package content_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/darasa/core/content"
	"github.com/trezcool/darasa/core/user"
	inmemdb "github.com/trezcool/darasa/storage/database/inmem"
)

var (
	admin   = user.Actor{UserID: "admin1", Roles: []string{user.RoleAdmin}}
	student = user.Actor{UserID: "student1", Roles: []string{user.RoleStudent}}
)

func setup(t *testing.T) *content.Service {
	t.Helper()
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	return content.NewService(inmemdb.NewContentRepository(db))
}

func createMaterial(t *testing.T, svc *content.Service, sectionID, title string, order int) *content.Material {
	t.Helper()
	mat, err := svc.CreateMaterial(content.NewMaterial{
		SectionID:  sectionID,
		Title:      title,
		Order:      order,
		SourceType: content.SourceText,
		HTML:       "<p>" + title + "</p>",
	}, admin)
	if err != nil {
		t.Fatalf("createMaterial() failed: %v", err)
	}
	return mat
}

func createAssignment(t *testing.T, svc *content.Service, sectionID, title string, order int) *content.Assignment {
	t.Helper()
	asg, err := svc.CreateAssignment(content.NewAssignment{
		SectionID:    sectionID,
		Title:        title,
		Order:        order,
		TotalMarks:   100,
		PassingMarks: 40,
	}, admin)
	if err != nil {
		t.Fatalf("createAssignment() failed: %v", err)
	}
	return asg
}

func orders(items []content.Item) map[string]int {
	m := make(map[string]int, len(items))
	for _, it := range items {
		m[it.Base().Title] = it.Base().Order
	}
	return m
}

func titles(items []content.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Base().Title)
	}
	return out
}

func TestItemsOf(t *testing.T) {
	svc := setup(t)
	createMaterial(t, svc, "sec1", "m2", 1)
	createMaterial(t, svc, "sec1", "m1", 0)
	createMaterial(t, svc, "sec1", "m3", 2)
	createMaterial(t, svc, "sec2", "other", 0)
	createAssignment(t, svc, "sec1", "hw1", 0)

	items, err := svc.ItemsOf("sec1", content.KindMaterial)
	assert.NoError(t, err)
	assert.Equal(t, []string{"m1", "m2", "m3"}, titles(items))

	// unknown section yields an empty sequence, not an error
	items, err = svc.ItemsOf("nope", content.KindMaterial)
	assert.NoError(t, err)
	assert.Empty(t, items)
}

func TestReorderItems(t *testing.T) {
	svc := setup(t)
	createMaterial(t, svc, "sec1", "mA", 0)
	mB := createMaterial(t, svc, "sec1", "mB", 1)
	createMaterial(t, svc, "sec1", "mC", 2)
	createMaterial(t, svc, "sec1", "mD", 3)
	createAssignment(t, svc, "sec1", "hw1", 0)
	createAssignment(t, svc, "sec1", "hw2", 1)

	got, err := svc.ReorderItems("sec1", content.KindMaterial, mB.ID, 1, 3, admin)
	assert.NoError(t, err)
	assert.Equal(t, []string{"mA", "mC", "mD", "mB"}, titles(got))

	// the new order is persisted
	stored, err := svc.ItemsOf("sec1", content.KindMaterial)
	assert.NoError(t, err)
	assert.Equal(t, []string{"mA", "mC", "mD", "mB"}, titles(stored))
	assert.Equal(t, map[string]int{"mA": 0, "mC": 1, "mD": 2, "mB": 3}, orders(stored))

	// reordering materials never touches assignment ordering
	asgs, err := svc.ItemsOf("sec1", content.KindAssignment)
	assert.NoError(t, err)
	assert.Equal(t, map[string]int{"hw1": 0, "hw2": 1}, orders(asgs))
}

func TestReorderItemsInvalidMoveLeavesStoreUntouched(t *testing.T) {
	svc := setup(t)
	mA := createMaterial(t, svc, "sec1", "mA", 0)
	createMaterial(t, svc, "sec1", "mB", 1)

	_, err := svc.ReorderItems("sec1", content.KindMaterial, mA.ID, 0, 5, admin)
	assert.Equal(t, content.ErrInvalidMove, err)

	_, err = svc.ReorderItems("sec1", content.KindMaterial, "unknown", 0, 1, admin)
	assert.Equal(t, content.ErrInvalidMove, err)

	stored, err := svc.ItemsOf("sec1", content.KindMaterial)
	assert.NoError(t, err)
	assert.Equal(t, map[string]int{"mA": 0, "mB": 1}, orders(stored))
}

func TestReorderItemsAdminOnly(t *testing.T) {
	svc := setup(t)
	mA := createMaterial(t, svc, "sec1", "mA", 0)
	createMaterial(t, svc, "sec1", "mB", 1)

	_, err := svc.ReorderItems("sec1", content.KindMaterial, mA.ID, 0, 1, student)
	assert.Equal(t, content.ErrAdminOnly, err)
}

func TestSetHiddenPersists(t *testing.T) {
	svc := setup(t)
	mat := createMaterial(t, svc, "sec1", "mA", 0)

	it, err := svc.SetHidden(mat.ID, content.KindMaterial, true, admin)
	assert.NoError(t, err)
	assert.True(t, it.Base().Hidden)

	// a student no longer sees it; the admin still does
	visible, err := svc.VisibleItemsOf("sec1", content.KindMaterial, student)
	assert.NoError(t, err)
	assert.Empty(t, visible)

	visible, err = svc.VisibleItemsOf("sec1", content.KindMaterial, admin)
	assert.NoError(t, err)
	assert.Len(t, visible, 1)
}

func TestDeadlineOverrides(t *testing.T) {
	svc := setup(t)
	asg := createAssignment(t, svc, "sec1", "hw1", 0)
	override := time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)

	_, err := svc.SetDeadlineOverride(content.NewDeadlineOverride{
		ItemID: asg.ID, UserID: student.UserID, Deadline: override,
	}, admin)
	assert.NoError(t, err)

	// overriding again replaces, it does not duplicate
	later := override.Add(24 * time.Hour)
	_, err = svc.SetDeadlineOverride(content.NewDeadlineOverride{
		ItemID: asg.ID, UserID: student.UserID, Deadline: later,
	}, admin)
	assert.NoError(t, err)

	got, err := svc.EffectiveDeadlineFor(asg.ID, content.KindAssignment, student.UserID)
	assert.NoError(t, err)
	if assert.NotNil(t, got) {
		assert.True(t, got.Equal(later))
	}

	// no override and no due date -> nil
	got, err = svc.EffectiveDeadlineFor(asg.ID, content.KindAssignment, "student2")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestDeadlineOverrideAdminOnly(t *testing.T) {
	svc := setup(t)
	asg := createAssignment(t, svc, "sec1", "hw1", 0)

	_, err := svc.SetDeadlineOverride(content.NewDeadlineOverride{
		ItemID: asg.ID, UserID: student.UserID, Deadline: time.Now(),
	}, student)
	assert.Equal(t, content.ErrAdminOnly, err)
}
