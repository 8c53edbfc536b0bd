package catalog

import (
	"fmt"

	"github.com/otakupedia/catalog-api/internal/models"
)

// FieldKind describes how a payload field is validated and rendered.
type FieldKind string

const (
	KindText       FieldKind = "text"
	KindInt        FieldKind = "int"
	KindBool       FieldKind = "bool"
	KindDate       FieldKind = "date"
	KindURL        FieldKind = "url"
	KindEnum       FieldKind = "enum"
	KindIDList     FieldKind = "id_list"
	KindObjectList FieldKind = "object_list"
)

// Field is one entry of a contributable type's payload schema.
type Field struct {
	Name     string
	Label    string
	Kind     FieldKind
	Required bool
	MinLen   int
	Enum     []string
	// ItemFields constrains elements of an object list.
	ItemFields []Field
}

// Schema enumerates the accepted payload fields for one contributable type.
// The same registry drives submission validation and the moderation detail
// view, so the two cannot drift apart.
type Schema struct {
	Type   models.ContributableType
	Fields []Field
}

var mediaStatusEnum = []string{"ongoing", "completed", "hiatus", "cancelled", "upcoming"}

var animeTypeEnum = []string{"TV", "Movie", "OVA", "ONA", "Special"}

var printFormatEnum = []string{"manga", "manhwa", "manhua", "novel", "light_novel", "one_shot", "fan_comic"}

var linkStatusEnum = []string{"active", "inactive", "official", "unofficial"}

func fanTranslationItemFields() []Field {
	return []Field{
		{Name: "site_name", Label: "Site", Kind: KindText, Required: true},
		{Name: "url", Label: "URL", Kind: KindURL, Required: true},
		{Name: "status", Label: "Status", Kind: KindEnum, Enum: linkStatusEnum},
		{Name: "group_id", Label: "Group", Kind: KindText},
	}
}

func siteItemFields() []Field {
	return []Field{
		{Name: "site_name", Label: "Site", Kind: KindText, Required: true},
		{Name: "url", Label: "URL", Kind: KindURL, Required: true},
	}
}

func creditItemFields() []Field {
	return []Field{
		{Name: "id", Label: "ID", Kind: KindText, Required: true},
		{Name: "name", Label: "Name", Kind: KindText},
		{Name: "role", Label: "Role", Kind: KindText},
	}
}

// mediaBaseFields are shared by every media bucket of the taxonomy.
func mediaBaseFields() []Field {
	return []Field{
		{Name: "title_romaji", Label: "Romaji title", Kind: KindText, Required: true},
		{Name: "title_english", Label: "English title", Kind: KindText},
		{Name: "title_spanish", Label: "Spanish title", Kind: KindText},
		{Name: "title_native", Label: "Native title", Kind: KindText},
		{Name: "synopsis", Label: "Synopsis", Kind: KindText, Required: true, MinLen: 20},
		{Name: "background", Label: "Background", Kind: KindText},
		{Name: "status", Label: "Status", Kind: KindEnum, Required: true, Enum: mediaStatusEnum},
		{Name: "start_date", Label: "Start date", Kind: KindDate},
		{Name: "end_date", Label: "End date", Kind: KindDate},
		{Name: "mal_id", Label: "MyAnimeList ID", Kind: KindInt},
		{Name: "anilist_id", Label: "AniList ID", Kind: KindInt},
		{Name: "kitsu_id", Label: "Kitsu ID", Kind: KindInt},
		{Name: "adult", Label: "Adult content", Kind: KindBool},
		{Name: "genre_ids", Label: "Genres", Kind: KindIDList, Required: true},
		{Name: "staff", Label: "Staff", Kind: KindObjectList, ItemFields: creditItemFields()},
		{Name: "characters", Label: "Characters", Kind: KindObjectList, ItemFields: creditItemFields()},
		{Name: "official_sites", Label: "Official sites", Kind: KindObjectList, ItemFields: siteItemFields()},
		{Name: "streaming_platforms", Label: "Streaming platforms", Kind: KindObjectList, ItemFields: siteItemFields()},
		{Name: "fan_translations", Label: "Fan translations", Kind: KindObjectList, ItemFields: fanTranslationItemFields()},
	}
}

func animeFields() []Field {
	fields := mediaBaseFields()
	return append(fields,
		Field{Name: "type", Label: "Type", Kind: KindEnum, Required: true, Enum: animeTypeEnum},
		Field{Name: "episode_count", Label: "Episodes", Kind: KindInt},
		Field{Name: "studio_ids", Label: "Studios", Kind: KindIDList},
	)
}

func printFields() []Field {
	fields := mediaBaseFields()
	return append(fields,
		Field{Name: "format", Label: "Format", Kind: KindEnum, Required: true, Enum: printFormatEnum},
		Field{Name: "country_of_origin", Label: "Country of origin", Kind: KindText, Required: true},
		Field{Name: "chapter_count", Label: "Chapters", Kind: KindInt},
		Field{Name: "volume_count", Label: "Volumes", Kind: KindInt},
	)
}

func personFields(descName string) []Field {
	return []Field{
		{Name: "name", Label: "Name", Kind: KindText, Required: true},
		{Name: "native_name", Label: "Native name", Kind: KindText},
		{Name: descName, Label: "About", Kind: KindText},
	}
}

var registry = map[models.ContributableType]Schema{
	models.ContributableAnime:   {Type: models.ContributableAnime, Fields: animeFields()},
	models.ContributableDonghua: {Type: models.ContributableDonghua, Fields: animeFields()},

	models.ContributableManga:    {Type: models.ContributableManga, Fields: printFields()},
	models.ContributableManhwa:   {Type: models.ContributableManhwa, Fields: printFields()},
	models.ContributableManhua:   {Type: models.ContributableManhua, Fields: printFields()},
	models.ContributableNovel:    {Type: models.ContributableNovel, Fields: printFields()},
	models.ContributableFanComic: {Type: models.ContributableFanComic, Fields: printFields()},

	models.ContributableCharacter: {Type: models.ContributableCharacter, Fields: personFields("description")},
	models.ContributableStaff:     {Type: models.ContributableStaff, Fields: personFields("biography")},
	models.ContributableVoiceActor: {Type: models.ContributableVoiceActor, Fields: append(
		personFields("biography"),
		Field{Name: "language", Label: "Language", Kind: KindText},
	)},
	models.ContributableStudio: {Type: models.ContributableStudio, Fields: []Field{
		{Name: "name", Label: "Name", Kind: KindText, Required: true},
		{Name: "website", Label: "Website", Kind: KindURL},
	}},
	models.ContributableGenre: {Type: models.ContributableGenre, Fields: []Field{
		{Name: "name", Label: "Name", Kind: KindText, Required: true},
	}},
}

// SchemaFor returns the payload schema registered for a contributable type.
func SchemaFor(t models.ContributableType) (Schema, error) {
	schema, ok := registry[t]
	if !ok {
		return Schema{}, fmt.Errorf("no schema registered for contributable type %q", t)
	}
	return schema, nil
}

// FieldView is one rendered row of a moderation detail view.
type FieldView struct {
	Name  string      `json:"name"`
	Label string      `json:"label"`
	Value interface{} `json:"value"`
}

// DetailView projects a contribution payload through the schema registry,
// producing the ordered field list moderators review. Unknown payload keys are
// dropped rather than rendered.
func DetailView(t models.ContributableType, data map[string]interface{}) ([]FieldView, error) {
	schema, err := SchemaFor(t)
	if err != nil {
		return nil, err
	}
	views := make([]FieldView, 0, len(schema.Fields))
	for _, field := range schema.Fields {
		value, ok := data[field.Name]
		if !ok || value == nil {
			continue
		}
		views = append(views, FieldView{Name: field.Name, Label: field.Label, Value: value})
	}
	return views, nil
}
