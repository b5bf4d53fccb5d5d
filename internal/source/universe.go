package source

import "github.com/rickgao/voldash/internal/model"

// Instrument is static metadata for one listed instrument.
type Instrument struct {
	Code     string
	Name     string
	Icon     model.IconType
	Exchange model.Tag
}

// Matches reports whether the instrument is selected by tag.
func (in Instrument) Matches(tag model.Tag) bool {
	switch {
	case tag == model.TagAll:
		return true
	case tag.IsCategory():
		return string(in.Icon) == string(tag)
	case tag.IsExchange():
		return in.Exchange == tag
	}
	return false
}

// universe is the mock instrument list in display order. No instrument is
// listed on GFEX, so that tag always yields an empty batch.
var universe = []Instrument{
	{"510050", "50ETF", model.IconIndex, model.TagSSE},
	{"510300", "300ETF", model.IconIndex, model.TagSSE},
	{"510500", "500ETF", model.IconIndex, model.TagSSE},
	{"159915", "创业板ETF", model.IconIndex, model.TagSZSE},
	{"588000", "科创板ETF", model.IconIndex, model.TagSSE},
	{"IO", "沪深300", model.IconIndex, model.TagCFFEX},
	{"IC", "中证500", model.IconIndex, model.TagCFFEX},
	{"HO", "上证50", model.IconIndex, model.TagCFFEX},
	{"399006", "创业板指", model.IconIndex, model.TagSZSE},
	{"000688", "科创50", model.IconIndex, model.TagSSE},

	{"CU", "铜", model.IconMetals, model.TagSHFE},
	{"AL", "铝", model.IconMetals, model.TagSHFE},
	{"ZN", "锌", model.IconMetals, model.TagSHFE},
	{"NI", "镍", model.IconMetals, model.TagSHFE},
	{"AU", "黄金", model.IconMetals, model.TagSHFE},

	{"SC", "原油", model.IconEnergy, model.TagINE},
	{"NG", "天然气", model.IconEnergy, model.TagINE},
	{"FU", "燃油", model.IconEnergy, model.TagSHFE},
	{"BU", "沥青", model.IconEnergy, model.TagSHFE},
	{"TA", "PTA", model.IconEnergy, model.TagCZCE},

	{"A", "大豆", model.IconAgri, model.TagDCE},
	{"C", "玉米", model.IconAgri, model.TagDCE},
	{"WH", "小麦", model.IconAgri, model.TagCZCE},
	{"CF", "棉花", model.IconAgri, model.TagCZCE},
	{"SR", "白糖", model.IconAgri, model.TagCZCE},

	{"Y", "豆油", model.IconOils, model.TagDCE},
	{"P", "棕榈油", model.IconOils, model.TagDCE},
	{"OI", "菜油", model.IconOils, model.TagCZCE},

	{"RB", "螺纹钢", model.IconFerrous, model.TagSHFE},
	{"HC", "热卷", model.IconFerrous, model.TagSHFE},
	{"I", "铁矿石", model.IconFerrous, model.TagDCE},
	{"J", "焦炭", model.IconFerrous, model.TagDCE},
	{"JM", "焦煤", model.IconFerrous, model.TagDCE},
	{"ZC", "动力煤", model.IconFerrous, model.TagCZCE},
}

// Universe returns a copy of the mock instrument list.
func Universe() []Instrument {
	out := make([]Instrument, len(universe))
	copy(out, universe)
	return out
}

func lookupInstrument(code string) (Instrument, bool) {
	for _, in := range universe {
		if in.Code == code {
			return in, true
		}
	}
	return Instrument{}, false
}
