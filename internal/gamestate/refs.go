package gamestate

// LocationRef 软引用的解析结果
// Resolved 为 false 时只有 Name 有效，调用方必须处理悬空引用
type LocationRef struct {
	Name     string    `json:"name"`
	Resolved bool      `json:"resolved"`
	Location *Location `json:"location,omitempty"`
}

// ResolveLocationRefs 将一组地点名解析为带存在性标记的引用
// connectedLocations、currentLocationName 等字段存的是裸名字，
// 目标地点可能从未建档或已被改名
func ResolveLocationRefs(names []string, locations []Location) []LocationRef {
	byName := make(map[string]*Location, len(locations))
	for i := range locations {
		byName[locations[i].Name] = &locations[i]
	}

	refs := make([]LocationRef, 0, len(names))
	for _, name := range names {
		if loc, ok := byName[name]; ok {
			refs = append(refs, LocationRef{Name: name, Resolved: true, Location: loc})
		} else {
			refs = append(refs, LocationRef{Name: name})
		}
	}
	return refs
}
