package tracker

// Kind of media a provider instance tracks. Remote trackers keep
// anime and manga lists separate, with different progress fields.
type Kind string

const (
	KindAnime Kind = "anime"
	KindManga Kind = "manga"
)

func (k Kind) Validate() error {
	switch k {
	case KindAnime, KindManga:
		return nil
	default:
		return Error("unknown media kind: " + string(k))
	}
}
