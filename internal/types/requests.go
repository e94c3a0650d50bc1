package types

// SaveKeyRequest represents the request body for storing the API key
type SaveKeyRequest struct {
	APIKey string `json:"api_key" binding:"required"`
}

// KeyStatusResponse reports whether a key is stored. The key itself is never
// sent back to the browser, only a masked hint of it.
type KeyStatusResponse struct {
	HasKey    bool   `json:"has_key"`
	MaskedKey string `json:"masked_key,omitempty"`
}

// SessionResponse is returned when a new session is issued
type SessionResponse struct {
	Token     string `json:"token"`
	SessionID string `json:"session_id"`
}

// FavoriteStatusResponse reports the favorite state of one recipe
type FavoriteStatusResponse struct {
	ID       int  `json:"id"`
	Favorite bool `json:"favorite"`
}

// FavoritesResponse lists a session's favorites
type FavoritesResponse struct {
	Favorites []Recipe `json:"favorites"`
	Count     int      `json:"count"`
}
