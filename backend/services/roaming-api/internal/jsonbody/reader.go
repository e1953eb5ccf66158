package jsonbody

// Reader keeps the first field error of a sequence of reads. Once an error is recorded
// every further read returns the zero value.
type Reader struct {
	err error
}

// Err returns the first recorded error.
func (r *Reader) Err() error {
	return r.err
}

// Fail records err unless an earlier error exists.
func (r *Reader) Fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

// Read is Mandatory through a Reader.
func Read[T any](r *Reader, o Object, name string, parse Parser[T]) T {
	var zero T
	if r.err != nil {
		return zero
	}
	v, err := Mandatory(o, name, parse)
	r.Fail(err)
	return v
}

// ReadOptional is Optional through a Reader.
func ReadOptional[T any](r *Reader, o Object, name string, parse Parser[T]) (T, bool) {
	var zero T
	if r.err != nil {
		return zero, false
	}
	v, present, err := Optional(o, name, parse)
	r.Fail(err)
	return v, present && err == nil
}

// Section is Object.Section through a Reader.
func (r *Reader) Section(o Object, name string) (Object, bool) {
	if r.err != nil {
		return Object{}, false
	}
	section, present, err := o.Section(name)
	r.Fail(err)
	return section, present && err == nil
}
