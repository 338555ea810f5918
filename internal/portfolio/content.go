package portfolio

import "time"

// Project is one card in the projects grid.
type Project struct {
	Title    string
	Blurb    string
	Impact   string
	Tags     []string
	Image    string
	ImageAlt string
	RepoURL  string
}

// Job is one entry in the experience list.
type Job struct {
	Company string
	Role    string
	When    string
	Bullets []string
}

// SkillGroup is a named set of skill pills.
type SkillGroup struct {
	Name  string
	Items []string
}

// Coursework splits courses into completed and in progress.
type Coursework struct {
	Completed []string
	Current   []string
}

// Meta is the document head: title, description and social cards.
type Meta struct {
	Title       string
	Description string
	BaseURL     string
	SiteName    string
	Image       string
}

// Page is everything the page template renders apart from the effects.
type Page struct {
	Name       string
	Role       string
	Location   string
	Email      string
	ResumeURL  string
	GitHubURL  string
	LinkedIn   string
	Intro      string
	Meta       Meta
	Projects   []Project
	Experience []Job
	Coursework Coursework
	Skills     []SkillGroup
	Year       int
}

// Nav anchors, in display order.
var Nav = []struct{ ID, Label string }{
	{"projects", "Projects"},
	{"experience", "Experience"},
	{"coursework", "Coursework"},
	{"skills", "Skills"},
	{"contact", "Contact"},
}

// Content returns the page content stamped with now's year for the footer.
// resumeURL may be empty, in which case the page omits its resume links.
func Content(now time.Time, resumeURL string) Page {
	p := content
	p.Year = now.Year()
	p.ResumeURL = resumeURL
	return p
}

var content = Page{
	Name:      "Kevin Lee",
	Role:      "Dartmouth College — B.S. Computer Science",
	Location:  "Hanover, NH",
	Email:     "kevin.ghlee@gmail.com",
	GitHubURL: "https://github.com/KevinGhlee",
	LinkedIn:  "https://www.linkedin.com/in/kevin-ghlee",
	Intro: `I build practical, fast software—mixing strong fundamentals with
data-driven interfaces and ML-backed tooling. Recently I’ve worked on
ad-analytics UIs with React/Three.js, DDoS mitigation research, and
interactive clinical simulations.`,
	Meta: Meta{
		Title:       "Kevin Lee — Software Engineer",
		Description: "Kevin Lee — Dartmouth CS student building clean, fast software and ML-powered tools.",
		BaseURL:     "https://kevinghlee.me",
		SiteName:    "Kevin Lee",
	},
	Projects: []Project{
		{
			Title: "OMAT — Oculomotor Movement Analysis Tool",
			Blurb: `MRI/fMRI/DTI medical imaging pipeline with FSL (motion correction, registration,
ROI analysis) delivering results to a mobile app. Android visualization via WebView and
JS imaging viewers for slice navigation and overlays.`,
			Impact:   "Improved concussion screening accuracy from 78% → 94% through automated preprocessing & feature extraction.",
			Tags:     []string{"Kotlin", "Python", "JavaScript", "FSL", "Imaging"},
		},
		{
			Title: "Smart Posture — Real-Time Sensor System",
			Blurb: `Classified posture from pressure sensors (FSRs/textile), accelerometers & gyros
(113 participants) with real-time browser visualization and 3D feedback built using
reusable Three.js components.`,
			Impact:   "Modeled vertical/horizontal spine inclination and delivered real-time severity classification & feedback.",
			Tags:     []string{"C", "JavaScript", "Three.js", "Sensors", "Data Viz"},
		},
	},
	Experience: []Job{
		{
			Company: "The Dartmouth (Student Newspaper)",
			Role:    "Software Engineer (Full-Stack)",
			When:    "Sept 2025 – Present · Hanover, NH",
			Bullets: []string{
				"Built production React and React Three Fiber interfaces integrating generative-AI analytics for Monumetric ad data.",
				"Designed Node.js REST services to process large-scale ad impressions & interactions from external partners.",
				"Shipped data-driven tooling with design/business teams for editors and operations staff.",
			},
		},
		{
			Company: "Thayer School of Engineering, Dartmouth",
			Role:    "Undergraduate Research Assistant — Cybersecurity Systems",
			When:    "Sept 2024 – Present · Hanover, NH",
			Bullets: []string{
				"Prototyped multi-layer DDoS mitigation: real-time traffic sensors (port mirroring, sFlow) + L3/4 + L7 filtering.",
				"Modeled edge mitigation via BGP RTBH & FlowSpec to drop attack traffic at routers/PoPs.",
				"Simulated attack scenarios; evaluated ML-based detection accuracy vs time-to-mitigation.",
			},
		},
		{
			Company: "Hiossen Implant (U.S. division of Osstem Implant)",
			Role:    "Software Engineering Intern",
			When:    "Jun 2025 – Sept 2025 · Englewood, NJ",
			Bullets: []string{
				"Built reusable Three.js components for interactive dental lab simulations.",
				"Improved internal clinical support chatbot using RAG + few-shot prompting in Python/LangChain.",
				"Integrated 3D interfaces with ML services for procedural visuals + AI guidance.",
			},
		},
		{
			Company: "Dartmouth College",
			Role:    "Computer Science Teaching Assistant — CS50",
			When:    "Sept 2024 – Present",
			Bullets: []string{
				"Supported students building C programs on Linux.",
				"Debugged memory, file I/O, and socket-networking issues.",
			},
		},
	},
	Coursework: Coursework{
		Completed: []string{
			"Object-Oriented Programming",
			"Discrete Mathematics",
			"Algorithms",
			"Software Implementation",
			"Cybersecurity",
			"Machine Learning",
		},
		Current: []string{"Fullstack Development", "Knot Theory with Reinforcement Learning"},
	},
	Skills: []SkillGroup{
		{Name: "Languages", Items: []string{"Python", "JavaScript", "C", "C++", "Java", "Kotlin"}},
		{Name: "Systems / Backend", Items: []string{"Node.js", "REST APIs", "Linux", "TCP/IP", "Sockets"}},
		{Name: "Frontend / Viz", Items: []string{"React", "React Three Fiber", "Three.js"}},
		{Name: "ML / Data", Items: []string{"NumPy", "scikit-learn", "LangChain", "RAG pipelines"}},
		{Name: "Tools", Items: []string{"Git", "Docker", "Bash"}},
	},
}
