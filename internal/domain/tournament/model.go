package tournament

import "fmt"

// Level classifies a tournament tier. Values follow the historical
// numeric codes used by the persisted dataset.
type Level uint8

const (
	LevelGrandSlam    Level = 1
	LevelMasters1000  Level = 2
	LevelAtp500       Level = 3
	LevelAtp250       Level = 4
	LevelMasters      Level = 5
	LevelChallenger   Level = 6
	LevelOlympics     Level = 7
	LevelDavisCup     Level = 8
	LevelOther        Level = 9
	LevelGrandSlamCup Level = 10
	LevelWct          Level = 11
)

var levelNames = map[Level]string{
	LevelGrandSlam:    "grand_slam",
	LevelMasters1000:  "masters_1000",
	LevelAtp500:       "atp_500",
	LevelAtp250:       "atp_250",
	LevelMasters:      "masters",
	LevelChallenger:   "challenger",
	LevelOlympics:     "olympics_games",
	LevelDavisCup:     "davis_cup",
	LevelOther:        "other",
	LevelGrandSlamCup: "grand_slam_cup",
	LevelWct:          "wct",
}

func (l Level) Valid() bool {
	_, ok := levelNames[l]
	return ok
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("level(%d)", uint8(l))
}

// Surface is the court surface an edition is played on.
type Surface uint8

const (
	SurfaceCarpet  Surface = 1
	SurfaceClay    Surface = 2
	SurfaceGrass   Surface = 3
	SurfaceHard    Surface = 4
	SurfaceUnknown Surface = 5
)

var surfaceNames = map[Surface]string{
	SurfaceCarpet:  "carpet",
	SurfaceClay:    "clay",
	SurfaceGrass:   "grass",
	SurfaceHard:    "hard",
	SurfaceUnknown: "unknown",
}

func (s Surface) Valid() bool {
	_, ok := surfaceNames[s]
	return ok
}

func (s Surface) String() string {
	if name, ok := surfaceNames[s]; ok {
		return name
	}
	return fmt.Sprintf("surface(%d)", uint8(s))
}

// Tournament is a recurring competition. SlotOrder positions a
// masters_1000 event within the season calendar and is zero for every
// other level. A retired tournament has LastYear set and may point at
// the tournament that replaced its calendar slot.
type Tournament struct {
	ID           uint32
	Name         string
	City         string
	Level        Level
	Surface      Surface
	Indoor       bool
	SlotOrder    uint8
	LastYear     uint16
	SubstituteID uint32
}

// New builds a Tournament, forcing the slot order and substitute
// reference to zero where they carry no meaning.
func New(id uint32, name, city string, level Level, surface Surface, indoor bool, slotOrder uint8, lastYear uint16, substituteID uint32) (Tournament, error) {
	t := Tournament{
		ID:           id,
		Name:         name,
		City:         city,
		Level:        level,
		Surface:      surface,
		Indoor:       indoor,
		SlotOrder:    slotOrder,
		LastYear:     lastYear,
		SubstituteID: substituteID,
	}
	if t.Level != LevelMasters1000 {
		t.SlotOrder = 0
	}
	if t.LastYear == 0 {
		t.SubstituteID = 0
	}
	if err := t.Validate(); err != nil {
		return Tournament{}, err
	}
	return t, nil
}

func (t Tournament) Validate() error {
	if t.ID == 0 {
		return fmt.Errorf("tournament id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("tournament name is required")
	}
	if !t.Level.Valid() {
		return fmt.Errorf("invalid tournament level: %d", t.Level)
	}
	if !t.Surface.Valid() {
		return fmt.Errorf("invalid tournament surface: %d", t.Surface)
	}
	if t.Level != LevelMasters1000 && t.SlotOrder != 0 {
		return fmt.Errorf("slot order is reserved for masters_1000 tournaments")
	}
	if t.LastYear == 0 && t.SubstituteID != 0 {
		return fmt.Errorf("active tournament cannot reference a substitute")
	}
	return nil
}

// Active reports whether the tournament is still held.
func (t Tournament) Active() bool {
	return t.LastYear == 0
}
