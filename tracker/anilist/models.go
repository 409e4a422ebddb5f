package anilist

import "github.com/luevano/libyomu/tracker"

type media struct {
	ID    int `json:"id"`
	IDMal int `json:"idMal"`
	Title struct {
		Romaji  string `json:"romaji"`
		English string `json:"english"`
		Native  string `json:"native"`
	} `json:"title"`
	Episodes       int        `json:"episodes"`
	Chapters       int        `json:"chapters"`
	MediaListEntry *listEntry `json:"mediaListEntry"`
}

type listEntry struct {
	Progress int    `json:"progress"`
	Status   string `json:"status"`
}

func (m *media) title() string {
	switch {
	case m.Title.English != "":
		return m.Title.English
	case m.Title.Romaji != "":
		return m.Title.Romaji
	default:
		return m.Title.Native
	}
}

func (m *media) toRemoteEntry(kind tracker.Kind) tracker.RemoteEntry {
	total := m.Episodes
	if kind == tracker.KindManga {
		total = m.Chapters
	}
	return tracker.RemoteEntry{
		ID:          m.ID,
		SecondaryID: m.IDMal,
		Title:       m.title(),
		Total:       total,
	}
}

type pageData struct {
	Page struct {
		Media []*media `json:"media"`
	} `json:"Page"`
}

type mediaData struct {
	Media *media `json:"Media"`
}

type saveEntryData struct {
	SaveMediaListEntry struct {
		ID int `json:"id"`
	} `json:"SaveMediaListEntry"`
}
