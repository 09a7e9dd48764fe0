package models

// Page is an offset/limit window over an ordered result set.
type Page struct {
	From int
	Size int
}

func (p Page) Offset() int { return p.From }

func (p Page) Limit() int { return p.Size }
