package source

import (
	"hash"
	"strconv"
)

// PathItem addresses a path item by its URL template.
type PathItem struct {
	Template string
}

func (p PathItem) Key() string    { return key(tagPathItem, quote(p.Template)) }
func (p PathItem) Hash() uint64   { return sum64(p) }
func (p PathItem) String() string { return "#/paths/" + EscapeToken(p.Template) }

func (p PathItem) writeHash(h hash.Hash64) {
	writeTag(h, tagPathItem)
	writeString(h, p.Template)
}

// Operation addresses the operation for Method (lowercase) on a path item.
type Operation struct {
	PathItem PathItem
	Method   string
}

func (o Operation) Key() string    { return key(tagOperation, o.PathItem.Key(), quote(o.Method)) }
func (o Operation) Hash() uint64   { return sum64(o) }
func (o Operation) String() string { return o.PathItem.String() + "/" + o.Method }

func (o Operation) writeHash(h hash.Hash64) {
	writeTag(h, tagOperation)
	writeChild(h, o.PathItem)
	writeString(h, o.Method)
}

// LocalID identifies a parameter within its owner. OpenAPI defines parameter
// identity as the pair of name and location.
type LocalID struct {
	Name string
	In   string
}

func (l LocalID) String() string { return l.Name + "(" + l.In + ")" }

// Parameter addresses a parameter either by component URI or by its local id
// on an operation or a path item.
type Parameter struct {
	tag       tag
	uri       string
	operation Operation
	pathItem  PathItem
	id        LocalID
}

// ParameterURI addresses a parameter under #/components/parameters.
func ParameterURI(uri string) Parameter {
	return Parameter{tag: tagParameterURI, uri: uri}
}

// ParameterOnOperation addresses an inline parameter of an operation.
func ParameterOnOperation(op Operation, id LocalID) Parameter {
	return Parameter{tag: tagParameterOnOperation, operation: op, id: id}
}

// ParameterOnPathItem addresses an inline parameter shared by a path item.
func ParameterOnPathItem(p PathItem, id LocalID) Parameter {
	return Parameter{tag: tagParameterOnPathItem, pathItem: p, id: id}
}

// URI returns the component URI and true for URI-addressed parameters.
func (p Parameter) URI() (string, bool) { return p.uri, p.tag == tagParameterURI }

// Operation returns the owning operation for operation-level parameters.
func (p Parameter) Operation() (Operation, bool) {
	return p.operation, p.tag == tagParameterOnOperation
}

// PathItem returns the owning path item for path-level parameters.
func (p Parameter) PathItem() (PathItem, bool) {
	return p.pathItem, p.tag == tagParameterOnPathItem
}

// LocalID returns the (name, location) pair of inline parameters.
func (p Parameter) LocalID() LocalID { return p.id }

func (p Parameter) Key() string {
	switch p.tag {
	case tagParameterURI:
		return key(p.tag, quote(p.uri))
	case tagParameterOnOperation:
		return key(p.tag, p.operation.Key(), quote(p.id.Name), quote(p.id.In))
	default:
		return key(p.tag, p.pathItem.Key(), quote(p.id.Name), quote(p.id.In))
	}
}

func (p Parameter) Hash() uint64 { return sum64(p) }

func (p Parameter) String() string {
	switch p.tag {
	case tagParameterURI:
		return p.uri
	case tagParameterOnOperation:
		return p.operation.String() + "/parameters/" + EscapeToken(p.id.String())
	default:
		return p.pathItem.String() + "/parameters/" + EscapeToken(p.id.String())
	}
}

func (p Parameter) writeHash(h hash.Hash64) {
	writeTag(h, p.tag)
	switch p.tag {
	case tagParameterURI:
		writeString(h, p.uri)
		return
	case tagParameterOnOperation:
		writeChild(h, p.operation)
	default:
		writeChild(h, p.pathItem)
	}
	writeString(h, p.id.Name)
	writeString(h, p.id.In)
}

// RequestBody addresses a request body by component URI or on its operation.
type RequestBody struct {
	tag       tag
	uri       string
	operation Operation
}

func RequestBodyURI(uri string) RequestBody {
	return RequestBody{tag: tagRequestBodyURI, uri: uri}
}

func RequestBodyOnOperation(op Operation) RequestBody {
	return RequestBody{tag: tagRequestBodyOnOperation, operation: op}
}

func (r RequestBody) URI() (string, bool)          { return r.uri, r.tag == tagRequestBodyURI }
func (r RequestBody) Operation() (Operation, bool) { return r.operation, r.tag == tagRequestBodyOnOperation }

func (r RequestBody) Key() string {
	if r.tag == tagRequestBodyURI {
		return key(r.tag, quote(r.uri))
	}
	return key(r.tag, r.operation.Key())
}

func (r RequestBody) Hash() uint64 { return sum64(r) }

func (r RequestBody) String() string {
	if r.tag == tagRequestBodyURI {
		return r.uri
	}
	return r.operation.String() + "/requestBody"
}

func (r RequestBody) writeHash(h hash.Hash64) {
	writeTag(h, r.tag)
	if r.tag == tagRequestBodyURI {
		writeString(h, r.uri)
		return
	}
	writeChild(h, r.operation)
}

// Response addresses a response by component URI or by its position in the
// operation's ordered response map.
type Response struct {
	tag       tag
	uri       string
	operation Operation
	index     int
}

func ResponseURI(uri string) Response {
	return Response{tag: tagResponseURI, uri: uri}
}

func ResponseOnOperation(op Operation, index int) Response {
	return Response{tag: tagResponseOnOperation, operation: op, index: index}
}

func (r Response) URI() (string, bool) { return r.uri, r.tag == tagResponseURI }

// Operation returns the owning operation and the response index.
func (r Response) Operation() (Operation, int, bool) {
	return r.operation, r.index, r.tag == tagResponseOnOperation
}

func (r Response) Key() string {
	if r.tag == tagResponseURI {
		return key(r.tag, quote(r.uri))
	}
	return key(r.tag, r.operation.Key(), strconv.Itoa(r.index))
}

func (r Response) Hash() uint64 { return sum64(r) }

func (r Response) String() string {
	if r.tag == tagResponseURI {
		return r.uri
	}
	return r.operation.String() + "/responses[" + strconv.Itoa(r.index) + "]"
}

func (r Response) writeHash(h hash.Hash64) {
	writeTag(h, r.tag)
	if r.tag == tagResponseURI {
		writeString(h, r.uri)
		return
	}
	writeChild(h, r.operation)
	writeInt(h, r.index)
}

// MediaType addresses an entry of a content map by its index.
type MediaType struct {
	tag         tag
	parameter   Parameter
	requestBody RequestBody
	response    Response
	index       int
}

func MediaTypeOnParameter(p Parameter, index int) MediaType {
	return MediaType{tag: tagMediaTypeOnParameter, parameter: p, index: index}
}

func MediaTypeOnRequestBody(r RequestBody, index int) MediaType {
	return MediaType{tag: tagMediaTypeOnRequestBody, requestBody: r, index: index}
}

func MediaTypeOnResponse(r Response, index int) MediaType {
	return MediaType{tag: tagMediaTypeOnResponse, response: r, index: index}
}

func (m MediaType) Index() int { return m.index }

func (m MediaType) Parameter() (Parameter, bool) {
	return m.parameter, m.tag == tagMediaTypeOnParameter
}

func (m MediaType) RequestBody() (RequestBody, bool) {
	return m.requestBody, m.tag == tagMediaTypeOnRequestBody
}

func (m MediaType) Response() (Response, bool) {
	return m.response, m.tag == tagMediaTypeOnResponse
}

func (m MediaType) parent() Pointer {
	switch m.tag {
	case tagMediaTypeOnParameter:
		return m.parameter
	case tagMediaTypeOnRequestBody:
		return m.requestBody
	default:
		return m.response
	}
}

func (m MediaType) Key() string {
	return key(m.tag, m.parent().Key(), strconv.Itoa(m.index))
}

func (m MediaType) Hash() uint64 { return sum64(m) }

func (m MediaType) String() string {
	return m.parent().String() + "/content[" + strconv.Itoa(m.index) + "]"
}

func (m MediaType) writeHash(h hash.Hash64) {
	writeTag(h, m.tag)
	writeChild(h, m.parent().(hasher))
	writeInt(h, m.index)
}
