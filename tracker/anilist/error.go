package anilist

type Error string

func (e Error) Error() string {
	return "anilist: " + string(e)
}

type AuthError string

func (e AuthError) Error() string {
	return "anilist auth: " + string(e)
}
