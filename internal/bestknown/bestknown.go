// Package bestknown хранит лучшие известные значения makespan для
// классических тестовых экземпляров (Fisher-Thompson, Lawrence).
package bestknown

import (
	"sort"
	"strings"
)

var table = map[string]int{
	"aaa1": 11,
	"ft06": 55,
	"ft10": 930,
	"ft20": 1165,

	"la01": 666, "la02": 655, "la03": 597, "la04": 590, "la05": 593,
	"la06": 926, "la07": 890, "la08": 863, "la09": 951, "la10": 958,
	"la11": 1222, "la12": 1039, "la13": 1150, "la14": 1292, "la15": 1207,
	"la16": 945, "la17": 784, "la18": 848, "la19": 842, "la20": 902,
	"la21": 1046, "la22": 927, "la23": 1032, "la24": 935, "la25": 977,
	"la26": 1218, "la27": 1235, "la28": 1216, "la29": 1152, "la30": 1355,
	"la31": 1784, "la32": 1850, "la33": 1719, "la34": 1721, "la35": 1888,
	"la36": 1268, "la37": 1397, "la38": 1196, "la39": 1233, "la40": 1222,
}

// Of возвращает лучшее известное значение для экземпляра.
func Of(name string) (int, bool) {
	v, ok := table[name]
	return v, ok
}

// Names возвращает имена всех известных экземпляров по алфавиту.
func Names() []string {
	out := make([]string, 0, len(table))
	for k := range table {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// InstancesMatching возвращает известные экземпляры с заданным префиксом,
// например "la0" или "ft".
func InstancesMatching(prefix string) []string {
	var out []string
	for _, n := range Names() {
		if strings.HasPrefix(n, prefix) {
			out = append(out, n)
		}
	}
	return out
}
