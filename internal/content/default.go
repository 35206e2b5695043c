package content

// DefaultCatalog 内置曲库，未配置曲库文件时使用
func DefaultCatalog() *Catalog {
	tracks := []Track{
		{
			MediaID: "trk-001", Title: "So What", Artist: "Miles Davis", Album: "Kind of Blue",
			Explanation: "调式爵士的开山之作，1959 年录制。",
			Genres:      []string{"Jazz", "Cool Jazz"},
		},
		{
			MediaID: "trk-002", Title: "Superstition", Artist: "Stevie Wonder", Album: "Talking Book",
			Explanation: "标志性的 Clavinet 连复段，放克与灵魂乐的交汇。",
			Genres:      []string{"Funk", "Soul"},
		},
		{
			MediaID: "trk-003", Title: "Paranoid Android", Artist: "Radiohead", Album: "OK Computer",
			Explanation: "多段式结构，另类摇滚与前卫摇滚的结合。",
			Genres:      []string{"Alternative Rock", "Progressive Rock"},
		},
		{
			MediaID: "trk-004", Title: "Nuvole Bianche", Artist: "Ludovico Einaudi", Album: "Una Mattina",
			Explanation: "极简主义钢琴，常被归入现代古典。",
			Genres:      []string{"Modern Classical", "Minimalism"},
		},
		{
			MediaID: "trk-005", Title: "One More Time", Artist: "Daft Punk", Album: "Discovery",
			Explanation: "法式浩室的巅峰，采样自 Eddie Johns。",
			Genres:      []string{"House", "French House"},
		},
		{
			MediaID: "trk-006", Title: "No Woman No Cry", Artist: "Bob Marley & The Wailers", Album: "Natty Dread",
			Explanation: "1975 年 Lyceum 现场版本最为流传。",
			Genres:      []string{"Reggae", "Roots Reggae"},
		},
	}

	distractors := []Option{
		{Label: "Techno", Description: "底特律起源的电子舞曲"},
		{Label: "Blues", Description: "十二小节，蓝调音阶"},
		{Label: "Hip Hop", Description: "说唱与采样文化"},
		{Label: "Country", Description: "美国乡村音乐"},
		{Label: "Metal", Description: "失真吉他与双踩"},
		{Label: "Ambient", Description: "氛围电子"},
		{Label: "Disco", Description: "七十年代舞曲"},
		{Label: "Punk", Description: "三和弦与快节奏"},
		{Label: "Bossa Nova", Description: "巴西桑巴与爵士的融合"},
		{Label: "Trip Hop", Description: "布里斯托之声"},
		{Label: "Gospel", Description: "福音音乐"},
		{Label: "Ska", Description: "牙买加跳跃节奏"},
	}

	catalog, err := NewCatalog(tracks, distractors)
	if err != nil {
		// 内置数据非空，不会走到这里
		panic(err)
	}
	return catalog
}
