// Package catalog holds the static game-currency price list.
//
// The catalog is an immutable value built once at process start. Entries are
// kept in slices, not maps: denomination buttons reference positions, so the
// order must stay stable for the whole lifetime of a user session.
package catalog

// Denomination is a purchasable currency bundle within a game.
type Denomination struct {
	Label string
	Price float64
}

// Game is one catalog entry with its ordered denominations.
type Game struct {
	Name          string
	Denominations []Denomination
}

// Catalog is an ordered, read-only list of games.
type Catalog struct {
	games []Game
}

// Games returns the ordered game list.
func (c *Catalog) Games() []Game {
	return c.games
}

// Game returns the game at position idx.
func (c *Catalog) Game(idx int) (Game, bool) {
	if idx < 0 || idx >= len(c.games) {
		return Game{}, false
	}
	return c.games[idx], true
}

// Denomination returns the denomination at position denomIdx of the game at
// position gameIdx.
func (c *Catalog) Denomination(gameIdx, denomIdx int) (Denomination, bool) {
	g, ok := c.Game(gameIdx)
	if !ok {
		return Denomination{}, false
	}
	if denomIdx < 0 || denomIdx >= len(g.Denominations) {
		return Denomination{}, false
	}
	return g.Denominations[denomIdx], true
}

// Default returns the built-in price list.
func Default() *Catalog {
	return &Catalog{games: []Game{
		{
			Name: "Mobile Legends: Bang Bang",
			Denominations: []Denomination{
				{"8 алмазов", 15.9},
				{"32+3 алмазов", 69},
				{"80+8 алмазов", 175},
				{"120+12 алмазов", 262},
				{"239+25 алмазов", 525},
				{"396+44 алмазов", 870},
				{"633+101 алмазов", 1399},
				{"791+142 алмазов", 1720},
				{"1186+224 алмазов", 2599},
				{"1581+300 алмазов", 3499},
				{"2371+474 алмазов", 5299},
				{"5136+1027 алмазов", 11299},
				{"Алмазный пропуск (неделя)", 199},
				{"50+50 (первое пополнение)", 139},
				{"150+150 (первое пополнение)", 345},
				{"250+250 (первое пополнение)", 560},
				{"500+500 (первое пополнение)", 1150},
			},
		},
		{
			Name: "Free Fire",
			Denominations: []Denomination{
				{"100+5", 75},
				{"310+16", 240},
				{"520+26", 360},
				{"1060+53", 750},
				{"2180+218", 1520},
				{"5600+560", 3850},
				{"Ваучер на неделю", 149},
			},
		},
		{
			Name: "Standoff 2",
			Denominations: []Denomination{
				{"100", 135},
				{"500", 520},
				{"1000", 945},
				{"3000", 2125},
				{"Gold Pass", 860},
				{"+1 уровень", 112},
				{"+10 уровней", 840},
				{"+25 уровней", 1855},
				{"+50 уровней", 3890},
				{"+75 уровней", 4750},
			},
		},
		{
			Name: "Rush Royale",
			Denominations: []Denomination{
				{"500 + 50 Кристаллов", 990},
				{"1000 + 100 Кристаллов", 1955},
				{"2500 + 250 Кристаллов", 4850},
				{"5500 + 550 Кристаллов", 9790},
				{"Эпический пропуск", 470},
				{"Легендарный пропуск", 1200},
				{"Премиум 10 дней", 720},
				{"Премиум 30 дней", 1410},
			},
		},
		{
			Name: "Super Sus",
			Denominations: []Denomination{
				{"100", 65},
				{"310", 179},
				{"520", 299},
				{"1060", 589},
				{"2180", 1250},
				{"5600", 2990},
				{"Еженедельная Карта", 65},
				{"Ежемесячная Карта", 750},
				{"Супер ВИП Карта", 850},
				{"Супер пропуск", 299},
				{"Набор Super Pass", 560},
			},
		},
		{
			Name: "ВКонтакте",
			Denominations: []Denomination{
				{"1 голос", 7.5},
			},
		},
		{
			Name: "Русская Рыбалка",
			Denominations: []Denomination{
				{"1 золото", 110},
				{"5 золота", 499},
				{"10 золота", 970},
				{"20 золота", 1890},
				{"50 золота", 4490},
				{"100 золота", 8750},
				{"200 золота", 17500},
				{"500 золота", 42000},
				{"Премиум 3 дня", 135},
				{"Премиум 7 дней", 240},
				{"Премиум 30 дней", 560},
				{"Премиум 90 дней", 1490},
				{"Премиум 180 дней", 2700},
				{"Премиум 360 дней", 4900},
				{"Бессрочный премиум", 75000},
			},
		},
	}}
}
