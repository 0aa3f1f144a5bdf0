package models

// Platform is a target publishing platform for a draft.
// Values are the display strings the client renders; the core treats them as
// opaque tags fixed at creation time.
type Platform string

const (
	PlatformLinkedIn  Platform = "LinkedIn"
	PlatformTwitter   Platform = "Twitter/X"
	PlatformInstagram Platform = "Instagram"
	PlatformFacebook  Platform = "Facebook"
	PlatformBlog      Platform = "Blog Post"
	PlatformEmail     Platform = "Email Newsletter"
)

// Tone is the requested writing tone.
type Tone string

const (
	ToneProfessional  Tone = "Professional"
	ToneCasual        Tone = "Casual"
	ToneWitty         Tone = "Witty"
	ToneEnthusiastic  Tone = "Enthusiastic"
	ToneEmpathetic    Tone = "Empathetic"
	ToneAuthoritative Tone = "Authoritative"
)

// Length is the approximate requested draft length.
type Length string

const (
	LengthShort  Length = "Short"
	LengthMedium Length = "Medium"
	LengthLong   Length = "Long"
)

// Theme is the client color scheme preference, persisted independently of the
// writer session.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"

	// DefaultTheme applies on first run and whenever no preference is stored.
	DefaultTheme = ThemeDark
)

// DraftRecord is the persisted unit of generated work product.
// ID, OriginalIdea, Platform and Tone are fixed at creation; refinement
// replaces Content wholesale and refreshes Timestamp.
type DraftRecord struct {
	ID           string   `json:"id"`
	OriginalIdea string   `json:"originalIdea"`
	Content      string   `json:"content"`
	Platform     Platform `json:"platform"`
	Tone         Tone     `json:"tone"`
	Timestamp    int64    `json:"timestamp"` // epoch millis, last modified
}

// Platforms returns the closed set of supported platforms.
func Platforms() []Platform {
	return []Platform{
		PlatformLinkedIn, PlatformTwitter, PlatformInstagram,
		PlatformFacebook, PlatformBlog, PlatformEmail,
	}
}

// Tones returns the closed set of supported tones.
func Tones() []Tone {
	return []Tone{
		ToneProfessional, ToneCasual, ToneWitty,
		ToneEnthusiastic, ToneEmpathetic, ToneAuthoritative,
	}
}

// Lengths returns the closed set of supported lengths.
func Lengths() []Length {
	return []Length{LengthShort, LengthMedium, LengthLong}
}

func (p Platform) Valid() bool {
	for _, v := range Platforms() {
		if p == v {
			return true
		}
	}
	return false
}

func (t Tone) Valid() bool {
	for _, v := range Tones() {
		if t == v {
			return true
		}
	}
	return false
}

func (l Length) Valid() bool {
	for _, v := range Lengths() {
		if l == v {
			return true
		}
	}
	return false
}

func (t Theme) Valid() bool { return t == ThemeLight || t == ThemeDark }

// Flip returns the opposite theme.
func (t Theme) Flip() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}
