package domain

// Video is a queued item. VideoID is the queue key; the other fields are
// whatever the client attached when queueing it.
type Video struct {
	VideoID      string         `json:"video_id"`
	Title        string         `json:"title,omitempty"`
	AuthorName   string         `json:"author_name,omitempty"`
	ThumbnailURL string         `json:"thumbnail_url,omitempty"`
	AddedBy      string         `json:"added_by,omitempty"`
	Meta         map[string]any `json:"meta,omitempty"`
}

type playlist struct {
	videos map[string]Video
	order  []string
	limit  int
}

func newPlaylist(limit int) *playlist {
	return &playlist{
		videos: make(map[string]Video),
		order:  []string{},
		limit:  limit,
	}
}

func (p *playlist) length() int {
	return len(p.order)
}

func (p *playlist) add(video Video) error {
	if video.VideoID == "" {
		return ErrInvalidVideo
	}

	if _, ok := p.videos[video.VideoID]; ok {
		return ErrVideoAlreadyQueued
	}

	if p.limit > 0 && p.length() >= p.limit {
		return ErrPlaylistLimitReached
	}

	p.videos[video.VideoID] = video
	p.order = append(p.order, video.VideoID)
	return nil
}

func (p *playlist) remove(videoID string) (Video, error) {
	video, ok := p.videos[videoID]
	if !ok {
		return Video{}, ErrVideoNotFound
	}

	delete(p.videos, videoID)
	for i, id := range p.order {
		if id == videoID {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}

	return video, nil
}

func (p *playlist) list() []Video {
	list := make([]Video, 0, len(p.order))
	for _, id := range p.order {
		list = append(list, p.videos[id])
	}

	return list
}
