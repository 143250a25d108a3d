package model

// Iteration is a snapshot of the stories and tasks in one iteration. It is
// fetched once per run and never refreshed.
type Iteration struct {
	ID      int      `json:"id,omitempty"`
	Stories []*Story `json:"rankedStories"`
}

type Story struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	Tasks []*Task `json:"tasks"`
}

// Task names start with a short code followed by a colon, ie "ab: Write
// tests".
type Task struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func (it *Iteration) Story(id int) (*Story, bool) {
	if it == nil {
		return nil, false
	}
	for _, s := range it.Stories {
		if s.ID == id {
			return s, true
		}
	}
	return nil, false
}
