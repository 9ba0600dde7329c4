package fields

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/charlesng35/nebula/internal/resources"
	"github.com/charlesng35/nebula/pkg/crypto"
)

var (
	_ resources.Field  = (*Field)(nil)
	_ resources.Filler = (*Field)(nil)
	_ resources.Column = (*Column)(nil)
)

func TestFieldBuilders(t *testing.T) {
	f := Text("title").WithRules("required", "max=120").WithHelp("Shown in listings").WithPlaceholder("My post")

	require.Equal(t, "title", f.Name())
	require.Equal(t, "Title", f.Label())
	require.Equal(t, ComponentText, f.Component())
	require.Equal(t, []string{"required", "max=120"}, f.Rules())
	require.Equal(t, map[string]any{"help": "Shown in listings", "placeholder": "My post"}, f.Meta())

	require.Equal(t, "Published at", Date("published_at").Label())
	require.Equal(t, "Body", Textarea("body").Label())
	require.Equal(t, "Headline", Text("title").WithLabel("Headline").Label())
}

func TestRulesReturnsCopy(t *testing.T) {
	f := Text("title").WithRules("required")
	rules := f.Rules()
	rules[0] = "mutated"
	require.Equal(t, []string{"required"}, f.Rules())
}

func TestSelectAddsOneOfRule(t *testing.T) {
	f := Select("status",
		resources.FilterOption{Label: "Draft", Value: "draft"},
		resources.FilterOption{Label: "Published", Value: "published"},
	).WithRules("required")

	require.Equal(t, []string{"oneof=draft published", "required"}, f.Rules())
	require.Len(t, f.Meta()["options"], 2)
}

func TestEmailAndNumberRules(t *testing.T) {
	require.Contains(t, Email("email").Rules(), "email")
	require.Contains(t, Number("views").Rules(), "numeric")
}

func TestPasswordFillHashes(t *testing.T) {
	f := Password("password")

	hashed, err := f.Fill("s3cret-pass")
	require.NoError(t, err)
	require.True(t, crypto.VerifyPassword(hashed.(string), "s3cret-pass"))

	again, err := f.Fill(hashed)
	require.NoError(t, err)
	require.Equal(t, hashed, again)

	_, err = f.Fill(42)
	require.Error(t, err)
}

func TestFillPassesThroughByDefault(t *testing.T) {
	value, err := Text("title").Fill("hello")
	require.NoError(t, err)
	require.Equal(t, "hello", value)
}

func TestColumn(t *testing.T) {
	c := NewColumn("created_at").WithSorting()
	require.Equal(t, "created_at", c.Name())
	require.Equal(t, "Created at", c.Label())
	require.True(t, c.Sortable())
	require.False(t, NewColumn("title").Sortable())
}
