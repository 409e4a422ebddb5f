package anilist

// queryCommon common media fields used by search and list lookups.
// idMal keys the best-effort MyAnimeList mirror pushes.
const queryCommon = `
id
idMal
title {
	romaji
	english
	native
}
episodes
chapters
`

const querySearchByName = `
query ($query: String, $type: MediaType) {
	Page (page: 1, perPage: 30) {
		media (search: $query, type: $type) {
			` + queryCommon + `
		}
	}
}`

const queryMediaWithListEntry = `
query ($id: Int) {
	Media (id: $id) {
		` + queryCommon + `
		mediaListEntry {
			progress
			status
		}
	}
}`

const mutationSaveProgress = `
mutation ($id: Int, $progress: Int) {
	SaveMediaListEntry (mediaId: $id, progress: $progress, status: CURRENT) {
		id
	}
}`
