package domain

import "time"

// Post is a whole aggregate: its likes and comments have no lifecycle of
// their own and are only ever persisted as part of saving the post.
type Post struct {
	ID       string    `json:"id"`
	User     string    `json:"user"`
	Text     string    `json:"text"`
	Name     string    `json:"name"`
	Avatar   string    `json:"avatar"`
	Likes    []Like    `json:"likes"`
	Comments []Comment `json:"comments"`
	Date     time.Time `json:"date"`
}

// Like is keyed by the liking user, not a synthetic id.
type Like struct {
	User string `json:"user"`
}

type Comment struct {
	ID     string    `json:"id"`
	User   string    `json:"user"`
	Text   string    `json:"text"`
	Name   string    `json:"name"`
	Avatar string    `json:"avatar"`
	Date   time.Time `json:"date"`
}

func (p *Post) LikedBy(userID string) bool {
	for _, like := range p.Likes {
		if like.User == userID {
			return true
		}
	}
	return false
}

// AddLike prepends the caller's like. Returns false without mutating when the
// user already appears in the list.
func (p *Post) AddLike(userID string) bool {
	if p.LikedBy(userID) {
		return false
	}
	p.Likes = append([]Like{{User: userID}}, p.Likes...)
	return true
}

// RemoveLike removes the first like matching the caller. Returns false when
// the user never liked the post.
func (p *Post) RemoveLike(userID string) bool {
	for i, like := range p.Likes {
		if like.User == userID {
			p.Likes = append(p.Likes[:i], p.Likes[i+1:]...)
			return true
		}
	}
	return false
}

// AddComment prepends: the newest comment is always at index 0.
func (p *Post) AddComment(c Comment) {
	p.Comments = append([]Comment{c}, p.Comments...)
}

func (p *Post) FindComment(commentID string) (Comment, bool) {
	for _, c := range p.Comments {
		if c.ID == commentID {
			return c, true
		}
	}
	return Comment{}, false
}

// RemoveComment removes the first comment matching the id; any later
// structural duplicate is left untouched.
func (p *Post) RemoveComment(commentID string) bool {
	for i, c := range p.Comments {
		if c.ID == commentID {
			p.Comments = append(p.Comments[:i], p.Comments[i+1:]...)
			return true
		}
	}
	return false
}
