package receipt

// Field keys the extraction prompt asks the model for, in log column order.
// The keys are deliberately kept exactly as the prompt spells them — they
// double as the CSV column names.
var Fields = []string{
	"receipt_datatime",
	"business_name(상호명,가맹점명)",
	"business_no(사업자번호)",
	"address",
	"tel",
	"fax",
	"e-mail",
	"item_summary",
	"currency unit",
	"total",
}

// Columns added by the store at submit time.
const (
	ColSubmitDatetime = "submit_datetime"
	ColFileName       = "file_name"
)

// Record maps column names to string values. A draft record (fresh from the
// model, user-editable) holds only the extraction fields; a submitted record
// additionally carries submit_datetime and file_name.
type Record map[string]string

// NewRecord returns a draft with every extraction field present, empty.
func NewRecord() Record {
	rec := make(Record, len(Fields)+2)
	for _, f := range Fields {
		rec[f] = ""
	}
	return rec
}

// Clone returns an independent copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// columns is the canonical full column order of the persisted log.
func columns() []string {
	cols := make([]string, 0, len(Fields)+2)
	cols = append(cols, Fields...)
	return append(cols, ColSubmitDatetime, ColFileName)
}
