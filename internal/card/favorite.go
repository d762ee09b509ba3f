package card

import "strconv"

// Kind names a favoritable collection.
type Kind string

const (
	KindKanji  Kind = "kanji"
	KindPhrase Kind = "phrase"
)

// Key identifies a favoritable entity across collections.
type Key struct {
	Kind Kind
	ID   string
}

func (k Key) String() string {
	return string(k.Kind) + ":" + k.ID
}

// FavoriteKey implements favorite.Target.
func (k *Kanji) FavoriteKey() Key {
	return Key{Kind: KindKanji, ID: strconv.FormatInt(k.ID, 10)}
}

// Favorite implements favorite.Target.
func (k *Kanji) Favorite() bool { return k.IsFavorite }

// SetFavorite implements favorite.Target.
func (k *Kanji) SetFavorite(v bool) { k.IsFavorite = v }

// FavoriteKey implements favorite.Target.
func (p *JapanesePhrase) FavoriteKey() Key {
	return Key{Kind: KindPhrase, ID: p.ID.String()}
}

// Favorite implements favorite.Target.
func (p *JapanesePhrase) Favorite() bool { return p.IsFavorite }

// SetFavorite implements favorite.Target.
func (p *JapanesePhrase) SetFavorite(v bool) { p.IsFavorite = v }
