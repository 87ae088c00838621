package content

import "strings"

// SectionDefault is the literal content a page renders for a section when
// nothing has been authored for it.
type SectionDefault struct {
	Name    string
	Content Record
}

// defaultSections lists, per page slug, the sections the public site renders
// in display order. The values mirror the copy baked into the front end so the
// site renders with an empty database.
var defaultSections = map[string][]SectionDefault{
	"home": {
		{Name: "hero", Content: Record{
			"heading":         "Stories Worth Watching",
			"subheading":      "Film, podcast and live production for brands that want to be remembered.",
			"backgroundImage": "/static/images/home-hero.jpg",
			"backgroundVideo": "/static/video/showreel.mp4",
			"buttonText":      "View Our Work",
			"buttonLink":      "/portfolio",
			"overlayOpacity":  0.5,
		}},
		{Name: "about", Content: Record{
			"heading":    "A Production House Built Around Craft",
			"subheading": "Who we are",
			"body":       "From first draft to final grade we keep every stage of production under one roof.",
			"image":      "/static/images/home-about.jpg",
			"buttonText": "Meet the Team",
			"buttonLink": "/about",
		}},
		{Name: "services", Content: Record{
			"heading":    "What We Make",
			"subheading": "Commercials, music videos, documentaries and live events.",
			"body":       "",
			"image":      "/static/images/home-services.jpg",
		}},
		{Name: "testimonials", Content: Record{
			"heading":    "Trusted by Creators and Brands",
			"subheading": "What our clients say",
		}},
		{Name: "cta", Content: Record{
			"heading":         "Ready to Create Something Unforgettable?",
			"subheading":      "Tell us about your project and we will be in touch within two business days.",
			"buttonText":      "Book a Project",
			"buttonLink":      "/contact",
			"backgroundColor": "#111111",
		}},
	},
	"about": {
		{Name: "hero", Content: Record{
			"heading":         "About Us",
			"subheading":      "Storytellers, engineers and producers under one roof.",
			"backgroundImage": "/static/images/about-hero.jpg",
			"overlayOpacity":  0.4,
		}},
		{Name: "mission", Content: Record{
			"heading": "Our Mission",
			"body":    "Give every story the production value it deserves, at any budget.",
			"image":   "/static/images/about-mission.jpg",
		}},
		{Name: "team", Content: Record{
			"heading":    "The Team",
			"subheading": "Directors, editors, colourists and sound designers.",
			"body":       "",
		}},
	},
	"services": {
		{Name: "hero", Content: Record{
			"heading":         "Services",
			"subheading":      "End-to-end production from concept to delivery.",
			"backgroundImage": "/static/images/services-hero.jpg",
			"overlayOpacity":  0.5,
		}},
		{Name: "process", Content: Record{
			"heading":    "How We Work",
			"subheading": "Discover, plan, shoot, finish.",
			"body":       "",
		}},
		{Name: "benefits", Content: Record{
			"heading":    "Why Work With Us",
			"subheading": "One team, one timeline, no hand-offs.",
			"body":       "",
		}},
	},
	"portfolio": {
		{Name: "hero", Content: Record{
			"heading":         "Our Work",
			"subheading":      "A selection of recent productions.",
			"backgroundImage": "/static/images/portfolio-hero.jpg",
			"overlayOpacity":  0.5,
		}},
		{Name: "gallery", Content: Record{
			"heading":    "Featured Projects",
			"subheading": "",
			"layout":     "grid",
		}},
	},
	"events": {
		{Name: "hero", Content: Record{
			"heading":         "Live Events",
			"subheading":      "Multi-camera coverage, streaming and same-day edits.",
			"backgroundImage": "/static/images/events-hero.jpg",
			"overlayOpacity":  0.5,
		}},
		{Name: "features", Content: Record{
			"heading":    "Event Coverage",
			"subheading": "Everything you need on the day.",
			"body":       "",
		}},
	},
	"studios": {
		{Name: "hero", Content: Record{
			"heading":         "Our Studios",
			"subheading":      "Sound stages and podcast suites available to book.",
			"backgroundImage": "/static/images/studios-hero.jpg",
			"overlayOpacity":  0.5,
		}},
		{Name: "studio", Content: Record{
			"heading":    "Stage A",
			"subheading": "Cyclorama, grip and lighting package included.",
			"body":       "",
			"image":      "/static/images/studio-stage.jpg",
			"buttonText": "Book the Studio",
			"buttonLink": "/contact",
		}},
		{Name: "podcast", Content: Record{
			"heading":    "Podcast Suite",
			"subheading": "Four-person set, multi-cam video and broadcast audio.",
			"body":       "",
			"image":      "/static/images/podcast-suite.jpg",
			"buttonText": "Book a Session",
			"buttonLink": "/contact",
		}},
	},
	"contact": {
		{Name: "hero", Content: Record{
			"heading":         "Let's Talk",
			"subheading":      "Tell us about your next production.",
			"backgroundImage": "/static/images/contact-hero.jpg",
			"overlayOpacity":  0.5,
		}},
		{Name: "contact", Content: Record{
			"heading":    "Get in Touch",
			"subheading": "We reply within two business days.",
			"email":      "hello@reelhouse.studio",
			"phone":      "",
			"address":    "",
		}},
	},
	"blog": {
		{Name: "hero", Content: Record{
			"heading":        "Journal",
			"subheading":     "Notes from set and the edit suite.",
			"overlayOpacity": 0.5,
		}},
	},
}

// DefaultSections returns the ordered defaults for a page. The returned
// records are copies.
func DefaultSections(pageSlug string) []SectionDefault {
	defaults := defaultSections[strings.ToLower(strings.TrimSpace(pageSlug))]
	out := make([]SectionDefault, len(defaults))
	for i, d := range defaults {
		out[i] = SectionDefault{Name: d.Name, Content: d.Content.Clone()}
	}
	return out
}

// Defaults returns the literal default record for one section, or an empty
// record when the page has no default for it.
func Defaults(pageSlug, sectionName string) Record {
	for _, d := range defaultSections[strings.ToLower(strings.TrimSpace(pageSlug))] {
		if d.Name == sectionName {
			return d.Content.Clone()
		}
	}
	return Record{}
}

// DefaultPageSlugs lists every page that has default content.
func DefaultPageSlugs() []string {
	return []string{"home", "about", "services", "portfolio", "events", "studios", "contact", "blog"}
}
