package admin

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/charlesng35/nebula/internal/fields"
	"github.com/charlesng35/nebula/internal/filters"
	"github.com/charlesng35/nebula/internal/models"
	"github.com/charlesng35/nebula/internal/records"
	"github.com/charlesng35/nebula/internal/resources"
	"github.com/charlesng35/nebula/pkg/crypto"
)

var userRoles = []resources.FilterOption{
	{Label: "Admin", Value: "admin"},
	{Label: "Editor", Value: "editor"},
	{Label: "Viewer", Value: "viewer"},
}

// UserResource manages panel accounts. Its model is supplied explicitly
// because users are not part of the convention namespaces.
type UserResource struct {
	db *gorm.DB
}

func (*UserResource) Icon() string { return "users" }

func (r *UserResource) Model() (resources.ModelType, error) {
	model, err := records.NewModel[models.User](r.db, "User", records.WithAssign(assignPassword))
	if err != nil {
		return nil, err
	}
	return model, nil
}

func (r *UserResource) Fields() []resources.Field {
	return append(r.EditFields(), fields.Password("password").WithRules("required", "min:8"))
}

// EditFields omits the password; it is only set on create.
func (*UserResource) EditFields() []resources.Field {
	return []resources.Field{
		fields.Text("name").WithRules("required", "max:120"),
		fields.Email("email").WithRules("required"),
		fields.Select("role", userRoles...),
		fields.Boolean("is_active").WithLabel("Active"),
	}
}

func (*UserResource) Columns() []resources.Column {
	return []resources.Column{
		fields.NewColumn("name").WithSorting(),
		fields.NewColumn("email").WithSorting(),
		fields.NewColumn("role"),
		fields.NewColumn("is_active").WithLabel("Active"),
		fields.NewColumn("last_login_at").WithSorting(),
	}
}

func (*UserResource) Filters() []resources.Filter {
	return []resources.Filter{
		filters.Select("role", "role", userRoles...),
		filters.Boolean("active", "is_active"),
	}
}

func (*UserResource) Searchable() []string {
	return []string{"name", "email"}
}

// assignPassword copies the hidden password column, hashing plain values.
func assignPassword(user *models.User, data resources.Values) ([]string, error) {
	raw, ok := data["password"]
	if !ok {
		return nil, nil
	}
	password, ok := raw.(string)
	if !ok {
		return nil, errors.New("password must be a string")
	}
	password = strings.TrimSpace(password)
	if password == "" {
		return nil, nil
	}
	if !crypto.IsHashed(password) {
		hashed, err := crypto.HashPassword(password)
		if err != nil {
			return nil, err
		}
		password = hashed
	}
	user.Password = password
	return []string{"password"}, nil
}
