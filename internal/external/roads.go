package external

import "strings"

var directionals = map[string]bool{
	"n": true, "s": true, "e": true, "w": true,
	"ne": true, "nw": true, "se": true, "sw": true,
	"north": true, "south": true, "east": true, "west": true,
	"northeast": true, "northwest": true, "southeast": true, "southwest": true,
}

var streetTypes = map[string]bool{
	"st": true, "street": true, "ave": true, "avenue": true,
	"blvd": true, "boulevard": true, "rd": true, "road": true,
	"dr": true, "drive": true, "ln": true, "lane": true,
	"ct": true, "court": true, "pl": true, "place": true,
	"way": true, "ter": true, "terrace": true, "pkwy": true,
	"parkway": true, "hwy": true, "highway": true, "cir": true, "circle": true,
}

func isDirectional(token string) bool {
	return directionals[strings.ToLower(strings.TrimSuffix(token, "."))]
}

// splitRoad tách "north main street nw" thành prefix/name/type/suffix
func splitRoad(road string) (prefix, name, typ, suffix string) {
	tokens := strings.Fields(road)
	if len(tokens) > 1 && isDirectional(tokens[0]) {
		prefix, tokens = tokens[0], tokens[1:]
	}
	if len(tokens) > 1 && isDirectional(tokens[len(tokens)-1]) {
		suffix, tokens = tokens[len(tokens)-1], tokens[:len(tokens)-1]
	}
	if len(tokens) > 1 && streetTypes[strings.ToLower(tokens[len(tokens)-1])] {
		typ, tokens = tokens[len(tokens)-1], tokens[:len(tokens)-1]
	}
	return prefix, strings.Join(tokens, " "), typ, suffix
}
