package entity

// SiteSettings is the single site configuration document. All fields are
// optional on update; DefaultSiteSettings supplies the values the document is
// seeded with on first read.
type SiteSettings struct {
	PhoneNumber        string `json:"phone_number"`
	WhatsappLink       string `json:"whatsapp_link"`
	LiveChatEnabled    bool   `json:"live_chat_enabled"`
	GIALogoVisible     bool   `json:"gia_logo_visible"`
	IGILogoVisible     bool   `json:"igi_logo_visible"`
	ReviewsCount       string `json:"reviews_count"`
	CustomersCount     string `json:"customers_count"`
	AvgSavings         string `json:"avg_savings"`
	EmailNotifyNewLead bool   `json:"email_notify_new_lead"`
	EmailNotifyQuote   bool   `json:"email_notify_quote"`
}

func DefaultSiteSettings() SiteSettings {
	return SiteSettings{
		PhoneNumber:        "+1234567890",
		WhatsappLink:       "https://wa.me/1234567890",
		LiveChatEnabled:    false,
		GIALogoVisible:     true,
		IGILogoVisible:     true,
		ReviewsCount:       "70+",
		CustomersCount:     "100+",
		AvgSavings:         "$5,000",
		EmailNotifyNewLead: true,
		EmailNotifyQuote:   true,
	}
}

// PublicSiteSettings is the unauthenticated subset served to the front-end.
type PublicSiteSettings struct {
	PhoneNumber     string `json:"phone_number"`
	WhatsappLink    string `json:"whatsapp_link"`
	LiveChatEnabled bool   `json:"live_chat_enabled"`
	GIALogoVisible  bool   `json:"gia_logo_visible"`
	IGILogoVisible  bool   `json:"igi_logo_visible"`
	ReviewsCount    string `json:"reviews_count"`
	CustomersCount  string `json:"customers_count"`
	AvgSavings      string `json:"avg_savings"`
}

func (s SiteSettings) Public() PublicSiteSettings {
	return PublicSiteSettings{
		PhoneNumber:     s.PhoneNumber,
		WhatsappLink:    s.WhatsappLink,
		LiveChatEnabled: s.LiveChatEnabled,
		GIALogoVisible:  s.GIALogoVisible,
		IGILogoVisible:  s.IGILogoVisible,
		ReviewsCount:    s.ReviewsCount,
		CustomersCount:  s.CustomersCount,
		AvgSavings:      s.AvgSavings,
	}
}

// TrackingSettings holds the third-party pixel/tag ids injected by the
// front-end.
type TrackingSettings struct {
	MetaPixelID       string `json:"meta_pixel_id"`
	GoogleAdsTag      string `json:"google_ads_tag"`
	TikTokPixelID     string `json:"tiktok_pixel_id"`
	GoogleAnalyticsID string `json:"google_analytics_id"`
}
