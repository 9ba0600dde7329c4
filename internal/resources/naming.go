package resources

import (
	"reflect"
	"strings"

	"github.com/jinzhu/inflection"
	"github.com/stoewer/go-strcase"
)

// resourceSuffix is stripped from descriptor type names before deriving names.
const resourceSuffix = "Resource"

// TypeName returns the bare type name of a descriptor, dereferencing pointers.
func TypeName(desc Descriptor) string {
	if desc == nil {
		return ""
	}
	t := reflect.TypeOf(desc)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	name := t.Name()
	// Instantiated generic types carry their type arguments in the name.
	if idx := strings.IndexByte(name, '['); idx >= 0 {
		name = name[:idx]
	}
	return name
}

// BaseName strips the trailing Resource suffix from a descriptor type name.
func BaseName(typeName string) string {
	return strings.TrimSuffix(typeName, resourceSuffix)
}

// PluralKey converts a base name into the plural kebab identifier (BlogPost -> blog-posts).
func PluralKey(base string) string {
	if base == "" {
		return ""
	}
	return inflection.Plural(strings.ToLower(strcase.KebabCase(base)))
}

// Singularize turns a plural kebab identifier into a spaced singular label (blog-posts -> blog post).
func Singularize(key string) string {
	return inflection.Singular(strings.ReplaceAll(key, "-", " "))
}

// Pluralize pluralizes a natural-language label.
func Pluralize(label string) string {
	return inflection.Plural(label)
}
