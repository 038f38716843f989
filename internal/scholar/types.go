package scholar

// Dataset is the normalized snapshot served to clients
type Dataset struct {
	Profile      Profile       `json:"profile" yaml:"profile"`
	Publications []Publication `json:"publications" yaml:"publications"`
}

type Profile struct {
	Name        string    `json:"name" yaml:"name"`
	Affiliation string    `json:"affiliation" yaml:"affiliation"`
	Contact     string    `json:"email" yaml:"email"`
	Interests   []string  `json:"interests" yaml:"interests"`
	Citations   Citations `json:"citations" yaml:"citations"`
}

type Citations struct {
	Total    int `json:"total" yaml:"total"`
	HIndex   int `json:"h_index" yaml:"h_index"`
	I10Index int `json:"i10_index" yaml:"i10_index"`
}

// Publication is one article row. Authors is kept as the free-form string
// the upstream returns; Year may be empty or non-numeric.
type Publication struct {
	Title     string `json:"title" yaml:"title"`
	Authors   string `json:"authors" yaml:"authors"`
	Journal   string `json:"journal" yaml:"journal"`
	Year      string `json:"year" yaml:"year"`
	Citations int    `json:"citations" yaml:"citations"`
	Link      string `json:"link" yaml:"link"`
}

// DefaultDataset is served when the upstream has never answered successfully.
func DefaultDataset() Dataset {
	return Dataset{
		Profile: Profile{
			Name:        "Mohammad Saud Afzal",
			Affiliation: "Indian Institute of Technology Kharagpur",
			Contact:     "Verified email at civil.iitkgp.ac.in",
			Interests:   []string{},
		},
		Publications: []Publication{},
	}
}
