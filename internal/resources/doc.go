// Package resources declares admin-panel resources: thin descriptors mapping a
// model type onto generated list, create, edit and delete views.
//
// A descriptor only has to declare its fields and columns:
//
//	type PostResource struct{}
//
//	func (PostResource) Fields() []resources.Field   { ... }
//	func (PostResource) Columns() []resources.Column { ... }
//
// Wrapping it with New derives the names ("posts", "post", "posts"), resolves
// the Post model from a Catalog and delegates persistence to it. Optional
// behaviour (icon, filters, metrics, search, custom store/update/delete) is
// enabled by implementing the matching capability interface.
package resources
