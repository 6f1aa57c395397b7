package services

import (
	"strings"
	"testing"

	"github.com/sahilchouksey/curriculum-catalog/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLearningResourceService_Create(t *testing.T) {
	f := newFixture(t)
	svc := NewLearningResourceService(f.db)

	created, err := svc.Create(ctx, LearningResourceAttributes{
		KnowledgePointID: f.points[3].ID,
		Title:            "Absolute value explained",
		ResourceType:     model.ResourceArticle,
		URL:              " https://example.com/abs ",
		IsRecommended:    true,
	})
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/abs", created.URL)
	assert.True(t, created.IsRecommended)
	assert.Equal(t, f.points[3].ID, created.KnowledgePoint)
}

func TestLearningResourceService_CreateValidation(t *testing.T) {
	f := newFixture(t)
	svc := NewLearningResourceService(f.db)

	base := LearningResourceAttributes{
		KnowledgePointID: f.points[0].ID,
		Title:            "Resource",
		ResourceType:     model.ResourceVideo,
		URL:              "https://example.com/r",
	}

	cases := []struct {
		name    string
		mutate  func(*LearningResourceAttributes)
		field   string
		message string
	}{
		{"bad type", func(a *LearningResourceAttributes) { a.ResourceType = "podcast" }, "resource_type", `"podcast" is not a valid choice.`},
		{"missing type", func(a *LearningResourceAttributes) { a.ResourceType = "" }, "resource_type", "This field is required."},
		{"relative url", func(a *LearningResourceAttributes) { a.URL = "/videos/1" }, "url", "Enter a valid URL."},
		{"mailto url", func(a *LearningResourceAttributes) { a.URL = "mailto:someone@example.com" }, "url", "Enter a valid URL."},
		{"long url", func(a *LearningResourceAttributes) { a.URL = "https://example.com/" + strings.Repeat("a", 190) }, "url", "Ensure this field has no more than 200 characters."},
		{"missing title", func(a *LearningResourceAttributes) { a.Title = "  " }, "title", "This field is required."},
		{"unknown parent", func(a *LearningResourceAttributes) { a.KnowledgePointID = 777 }, "knowledge_point", `Invalid pk "777" - object does not exist.`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			attrs := base
			tc.mutate(&attrs)
			_, err := svc.Create(ctx, attrs)
			ve, ok := AsValidationError(err)
			require.True(t, ok, "expected a validation error, got %v", err)
			assert.Equal(t, tc.message, ve.Fields[tc.field])
		})
	}

	assert.EqualValues(t, 3, f.count(t, &model.LearningResource{}))
}

func TestLearningResourceService_ListFilters(t *testing.T) {
	f := newFixture(t)
	svc := NewLearningResourceService(f.db)

	recommended, err := svc.List(ctx, LearningResourceFilter{IsRecommended: boolPtr(true)}, ListOptions{})
	require.NoError(t, err)
	require.Len(t, recommended, 1)
	assert.Equal(t, "Number line video", recommended[0].Title)

	notRecommended, err := svc.List(ctx, LearningResourceFilter{IsRecommended: boolPtr(false)}, ListOptions{})
	require.NoError(t, err)
	assert.Len(t, notRecommended, 2)

	books, err := svc.List(ctx, LearningResourceFilter{ResourceType: strPtr("book")}, ListOptions{})
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "ftp://example.com/books/eq.pdf", books[0].URL)

	_, err = svc.List(ctx, LearningResourceFilter{ResourceType: strPtr("podcast")}, ListOptions{})
	ve, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "resource_type")

	forPoint, err := svc.List(ctx, LearningResourceFilter{KnowledgePointID: uintPtr(f.points[2].ID)}, ListOptions{Ordering: []string{"-title"}})
	require.NoError(t, err)
	require.Len(t, forPoint, 2)
	assert.Equal(t, "Number line worksheet", forPoint[0].Title)

	found, err := svc.List(ctx, LearningResourceFilter{}, ListOptions{Search: "number WORK"})
	require.NoError(t, err)
	require.Len(t, found, 1)
}

func TestLearningResourceService_UpdateAndDelete(t *testing.T) {
	f := newFixture(t)
	svc := NewLearningResourceService(f.db)
	id := f.resources[1].ID

	updated, err := svc.Update(ctx, id, LearningResourcePatch{IsRecommended: boolPtr(true)}, true)
	require.NoError(t, err)
	assert.True(t, updated.IsRecommended)
	assert.Equal(t, "Number line worksheet", updated.Title)

	_, err = svc.Update(ctx, id, LearningResourcePatch{Title: strPtr("Only a title")}, false)
	ve, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Len(t, ve.Fields, 3)

	badURL := "not a url"
	_, err = svc.Update(ctx, id, LearningResourcePatch{URL: &badURL}, true)
	_, ok = AsValidationError(err)
	assert.True(t, ok)

	require.NoError(t, svc.Delete(ctx, id))
	assert.ErrorIs(t, svc.Delete(ctx, id), ErrNotFound)
	_, err = svc.Get(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func boolPtr(b bool) *bool { return &b }
