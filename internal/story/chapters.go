// internal/story/chapters.go
package story

// Chapter is one full-screen narrative panel.
type Chapter struct {
	Index     int      `json:"index"`
	Slug      string   `json:"slug"`
	Label     string   `json:"label"`
	Eyebrow   string   `json:"eyebrow,omitempty"`
	Title     string   `json:"title"`
	Subtitle  string   `json:"subtitle,omitempty"`
	Body      []string `json:"body,omitempty"`
	Bullets   []string `json:"bullets,omitempty"`
	Closing   []string `json:"closing,omitempty"`
	NextLabel string   `json:"nextLabel,omitempty"`
}

// FormStep is one question of the application form.
type FormStep struct {
	Step        int    `json:"step"`
	Field       string `json:"field"`
	Question    string `json:"question"`
	Placeholder string `json:"placeholder"`
	InputType   string `json:"inputType"`
	Optional    bool   `json:"optional"`
}

const (
	InputText     = "text"
	InputEmail    = "email"
	InputTel      = "tel"
	InputURL      = "url"
	InputTextarea = "textarea"
)

const (
	FormTitle    = "Ready to Apply?"
	FormSubtitle = "Tell us about yourself. We can't wait to meet you."
	SubmitLabel  = "Submit Application"
	ThankYou     = "Application submitted! Thank you for applying."
)

var chapters = []Chapter{
	{
		Slug:    "intro",
		Label:   "Intro",
		Eyebrow: "✨ Welcome to the Renaissance",
		Title:   "A new era of learning and teaching — where creativity meets technology, and passion turns into impact.",
		Body: []string{
			"This isn’t another education platform. This is a movement — a place where teaching feels alive again. " +
				"Where instructors don’t just teach, they create experiences. And where every class becomes a spark " +
				"that inspires growth — for both students and teachers alike.",
		},
		NextLabel: "🎇 Start the Magic →",
	},
	{
		Slug:     "welcome",
		Label:    "Chapter 1",
		Title:    "Welcome to the Renaissance",
		Subtitle: "Because when teaching is fun, learning becomes unforgettable.",
		Body: []string{
			"You didn't choose to teach for routine. You chose it to inspire, connect, and share your craft with passion. " +
				"At Renaissance, we believe teaching should spark joy — not burnout.",
			"We're building a new kind of platform where instructors feel energized, creative, and fully supported " +
				"to do what they love: create meaningful learning experiences.",
		},
		NextLabel: "Show me how",
	},
	{
		Slug:     "imagine",
		Label:    "Chapter 2",
		Title:    "Imagine a Class That Feels Like a Game — Not a Chore",
		Subtitle: "Where learning feels immersive, and teaching feels effortless.",
		Body:     []string{"Picture this:"},
		Bullets: []string{
			"Your students check in with one tap.",
			"Your classes are personalized, data-backed, and fun.",
			"You see live insights, quick feedback, and engagement that grows week after week.",
			"Teaching becomes a flow state — you're not managing, you're creating.",
		},
		Closing: []string{
			"That's the Renaissance experience: making learning addictive through creativity, design, and technology.",
		},
		NextLabel: "Tell me more",
	},
	{
		Slug:     "creativity-meets-technology",
		Label:    "Chapter 3",
		Title:    "Where Creativity Meets Technology",
		Subtitle: "We built the system that lets great teachers focus on what they do best.",
		Bullets: []string{
			"Smart Tools, Simple Flow: We handle the tech so you can focus on teaching.",
			"Engaged Students: Every class feels alive — fun, interactive, and addictive.",
			"Your Brand, Amplified: We promote you — your style, your story, your impact.",
			"Built for Growth: From marketing to automation, everything works behind the scenes to help you scale effortlessly.",
		},
		Closing: []string{
			"We make teaching smoother, smarter, and more inspiring than ever.",
			"We take care of the tech, so you can take care of your students.",
		},
		NextLabel: "But how do we make that happen",
	},
	{
		Slug:     "focus-on-what-you-love",
		Label:    "Chapter 4",
		Title:    "Focus on What You Love — We'll Handle the Rest",
		Subtitle: "This isn't just a platform. It's your creative playground.",
		Body: []string{
			"At Renaissance, teaching isn't another job — it's your art form.",
			"We give you freedom, tools, and a creative community to turn your expertise into transformative experiences.",
			"You design your classes, your way.",
			"We handle the rest: marketing, tech, operations, and support.",
		},
		Closing: []string{
			"The result?",
			"Instructors who love teaching again — and students who can't wait for their next class.",
		},
		NextLabel: "What's it like teaching here?",
	},
	{
		Slug:     "sound-like-you",
		Label:    "Chapter 5",
		Title:    "Does This Sound Like You?",
		Subtitle: "We're looking for passionate instructors who believe learning should be alive.",
		Body:     []string{"You might be perfect for Renaissance if you:"},
		Bullets: []string{
			"Love teaching and want to keep it exciting",
			"Care deeply about your students' growth",
			"Have creative ideas and want to bring them to life",
			"Believe teaching is an experience — not a job",
			"Want to grow your personal brand while doing what you love",
		},
		Closing: []string{
			"If you're ready to create classes that students remember for life, we'd love to meet you.",
		},
		NextLabel: "Could this be me?",
	},
	{
		Slug:     "be-part-of-it",
		Label:    "Chapter 6",
		Title:    "Be Part of the Renaissance",
		Subtitle: "Let's reinvent what it means to teach — together.",
		Body: []string{
			"We're inviting instructors from every discipline — from performance arts to design, movement, music, and more.",
			"If you believe that teaching can be joyful, dynamic, and full of possibility, you belong here.",
		},
		Closing: []string{
			"Apply now — or just say hello. Let's explore what we can create together.",
		},
		NextLabel: "Join the movement",
	},
	{
		Slug:      "apply",
		Label:     "Chapter 7",
		Title:     FormTitle,
		Subtitle:  FormSubtitle,
		NextLabel: SubmitLabel,
	},
}

var formSteps = []FormStep{
	{Field: "name", Question: "WHAT'S YOUR NAME?", Placeholder: "Your name", InputType: InputText},
	{Field: "email", Question: "EMAIL ADDRESS", Placeholder: "you@example.com", InputType: InputEmail},
	{Field: "phone", Question: "PHONE NUMBER", Placeholder: "+852 XXXX XXXX", InputType: InputTel},
	{Field: "subject", Question: "WHAT DO YOU TEACH?", Placeholder: "e.g., Piano, Yoga, Photography, Design...", InputType: InputText},
	{Field: "experience", Question: "YEARS OF TEACHING EXPERIENCE", Placeholder: "e.g., 5 years, 10+ years...", InputType: InputText},
	{Field: "philosophy", Question: "WHAT'S YOUR TEACHING PHILOSOPHY?", Placeholder: "What makes your teaching unique?", InputType: InputTextarea},
	{Field: "portfolio", Question: "PORTFOLIO OR WEBSITE (OPTIONAL)", Placeholder: "https://yourportfolio.com", InputType: InputURL, Optional: true},
	{Field: "social", Question: "INSTAGRAM OR SOCIAL (OPTIONAL)", Placeholder: "@yourusername or https://instagram.com/yourusername", InputType: InputText, Optional: true},
}

func init() {
	for i := range chapters {
		chapters[i].Index = i
	}
	for i := range formSteps {
		formSteps[i].Step = i + 1
	}
}

// Chapters returns a copy of the ordered chapter catalogue.
func Chapters() []Chapter {
	out := make([]Chapter, len(chapters))
	copy(out, chapters)
	return out
}

// FormSteps returns a copy of the ordered form steps.
func FormSteps() []FormStep {
	out := make([]FormStep, len(formSteps))
	copy(out, formSteps)
	return out
}

// ChapterAt returns the chapter at a clamped index.
func ChapterAt(index int) Chapter {
	return chapters[clamp(index, 0, len(chapters)-1)]
}

// FormStepAt returns the form step at a clamped 1-based step.
func FormStepAt(step int) FormStep {
	return formSteps[clamp(step, 1, len(formSteps))-1]
}

// Labels returns the status-bar label of every chapter.
func Labels() []string {
	labels := make([]string, len(chapters))
	for i, c := range chapters {
		labels[i] = c.Label
	}
	return labels
}
