package content

import "strings"

// FieldKind is the input widget the admin editor renders for a field.
type FieldKind string

const (
	FieldText     FieldKind = "text"
	FieldTextarea FieldKind = "textarea"
	FieldURL      FieldKind = "url"
	FieldImage    FieldKind = "image"
	FieldVideo    FieldKind = "video"
	FieldColor    FieldKind = "color"
	FieldSelect   FieldKind = "select"
	FieldNumber   FieldKind = "number"
)

// Field describes one editable key of a section's content record.
type Field struct {
	Key     string    `json:"key"`
	Label   string    `json:"label"`
	Kind    FieldKind `json:"type"`
	Options []string  `json:"options,omitempty"`
	Min     *float64  `json:"min,omitempty"`
	Max     *float64  `json:"max,omitempty"`
}

// Template is the ordered field list inferred for a section.
type Template struct {
	Key    string  `json:"key"`
	Fields []Field `json:"fields"`
}

// DefaultTemplateKey is used when no template key occurs in the section name.
const DefaultTemplateKey = "default"

func text(key, label string) Field     { return Field{Key: key, Label: label, Kind: FieldText} }
func textarea(key, label string) Field { return Field{Key: key, Label: label, Kind: FieldTextarea} }
func link(key, label string) Field     { return Field{Key: key, Label: label, Kind: FieldURL} }
func image(key, label string) Field    { return Field{Key: key, Label: label, Kind: FieldImage} }
func video(key, label string) Field    { return Field{Key: key, Label: label, Kind: FieldVideo} }
func color(key, label string) Field    { return Field{Key: key, Label: label, Kind: FieldColor} }

func choice(key, label string, options ...string) Field {
	return Field{Key: key, Label: label, Kind: FieldSelect, Options: options}
}

func opacity(key, label string) Field {
	lo, hi := 0.0, 1.0
	return Field{Key: key, Label: label, Kind: FieldNumber, Min: &lo, Max: &hi}
}

// templates is traversed in declaration order and the first key contained in
// the section name wins. It must stay a slice: "podcast-studio" resolves to
// podcast only because podcast is declared before studio.
var templates = []Template{
	{Key: "hero", Fields: []Field{
		text("heading", "Heading"),
		textarea("subheading", "Subheading"),
		image("backgroundImage", "Background Image"),
		video("backgroundVideo", "Background Video"),
		text("buttonText", "Button Text"),
		link("buttonLink", "Button Link"),
		opacity("overlayOpacity", "Overlay Opacity"),
	}},
	{Key: "about", Fields: []Field{
		text("heading", "Heading"),
		text("subheading", "Subheading"),
		textarea("body", "Body"),
		image("image", "Image"),
		text("buttonText", "Button Text"),
		link("buttonLink", "Button Link"),
	}},
	{Key: "services", Fields: []Field{
		text("heading", "Heading"),
		textarea("subheading", "Subheading"),
		textarea("body", "Body"),
		image("image", "Image"),
	}},
	{Key: "cta", Fields: []Field{
		text("heading", "Heading"),
		textarea("subheading", "Subheading"),
		text("buttonText", "Button Text"),
		link("buttonLink", "Button Link"),
		color("backgroundColor", "Background Color"),
		image("backgroundImage", "Background Image"),
	}},
	{Key: "gallery", Fields: []Field{
		text("heading", "Heading"),
		textarea("subheading", "Subheading"),
		choice("layout", "Layout", "grid", "masonry", "carousel"),
	}},
	{Key: "testimonials", Fields: []Field{
		text("heading", "Heading"),
		textarea("subheading", "Subheading"),
	}},
	{Key: "contact", Fields: []Field{
		text("heading", "Heading"),
		textarea("subheading", "Subheading"),
		text("email", "Email"),
		text("phone", "Phone"),
		textarea("address", "Address"),
	}},
	{Key: "features", Fields: []Field{
		text("heading", "Heading"),
		textarea("subheading", "Subheading"),
		textarea("body", "Body"),
	}},
	{Key: "podcast", Fields: []Field{
		text("heading", "Heading"),
		textarea("subheading", "Subheading"),
		textarea("body", "Body"),
		image("image", "Image"),
		video("video", "Video"),
		text("buttonText", "Button Text"),
		link("buttonLink", "Button Link"),
	}},
	{Key: "studio", Fields: []Field{
		text("heading", "Heading"),
		textarea("subheading", "Subheading"),
		textarea("body", "Body"),
		image("image", "Image"),
		video("video", "Video"),
		text("buttonText", "Button Text"),
		link("buttonLink", "Button Link"),
	}},
	{Key: "team", Fields: []Field{
		text("heading", "Heading"),
		textarea("subheading", "Subheading"),
		textarea("body", "Body"),
	}},
	{Key: "mission", Fields: []Field{
		text("heading", "Heading"),
		textarea("body", "Body"),
		image("image", "Image"),
	}},
	{Key: "benefits", Fields: []Field{
		text("heading", "Heading"),
		textarea("subheading", "Subheading"),
		textarea("body", "Body"),
	}},
	{Key: "process", Fields: []Field{
		text("heading", "Heading"),
		textarea("subheading", "Subheading"),
		textarea("body", "Body"),
	}},
}

var defaultTemplate = Template{Key: DefaultTemplateKey, Fields: []Field{
	text("heading", "Heading"),
	textarea("subheading", "Subheading"),
	textarea("body", "Body"),
	image("image", "Image"),
	video("video", "Video"),
	text("buttonText", "Button Text"),
	link("buttonLink", "Button Link"),
	color("backgroundColor", "Background Color"),
}}

// TemplateKeys returns the template keys in matching order.
func TemplateKeys() []string {
	keys := make([]string, len(templates))
	for i, t := range templates {
		keys[i] = t.Key
	}
	return keys
}

// TemplateFor infers the editor template from a section name by substring
// containment against the lowercased name.
func TemplateFor(sectionName string) Template {
	name := strings.ToLower(sectionName)
	for _, t := range templates {
		if strings.Contains(name, t.Key) {
			return copyTemplate(t)
		}
	}
	return copyTemplate(defaultTemplate)
}

func copyTemplate(t Template) Template {
	fields := make([]Field, len(t.Fields))
	copy(fields, t.Fields)
	return Template{Key: t.Key, Fields: fields}
}

// Field returns the descriptor for key, if the template has one.
func (t Template) Field(key string) (Field, bool) {
	for _, f := range t.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}
