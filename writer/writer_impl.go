package writer

import (
	"bytes"
	"compress/zlib"
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/tradiedocs/docpdf/ir/raw"
	"github.com/tradiedocs/docpdf/ir/semantic"
)

type impl struct{}

type allocator struct {
	next    int
	objects map[raw.ObjectRef]raw.Object
	order   []raw.ObjectRef
}

func newAllocator() *allocator {
	return &allocator{next: 1, objects: make(map[raw.ObjectRef]raw.Object)}
}

func (a *allocator) alloc() raw.ObjectRef {
	ref := raw.ObjectRef{Num: a.next}
	a.next++
	a.order = append(a.order, ref)
	return ref
}

func (a *allocator) set(ref raw.ObjectRef, obj raw.Object) { a.objects[ref] = obj }

func (w *impl) Write(ctx context.Context, doc *semantic.Document, out io.Writer, cfg Config) error {
	if len(doc.Pages) == 0 {
		return fmt.Errorf("document has no pages")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	alloc := newAllocator()
	catalogRef := alloc.alloc()
	pagesRef := alloc.alloc()

	var infoRef *raw.ObjectRef
	if doc.Info != nil || cfg.Producer != "" {
		ref := alloc.alloc()
		infoRef = &ref
		alloc.set(ref, infoDict(doc.Info, cfg.Producer))
	}

	fontRefs := emitFonts(alloc, doc.Pages)

	pageRefs := make([]raw.ObjectRef, 0, len(doc.Pages))
	for _, p := range doc.Pages {
		if err := ctx.Err(); err != nil {
			return err
		}
		contentRef := alloc.alloc()
		alloc.set(contentRef, contentStream(p, cfg))

		xobjRefs := emitXObjects(alloc, p)

		pageRef := alloc.alloc()
		pageRefs = append(pageRefs, pageRef)
		alloc.set(pageRef, pageDict(p, pagesRef, contentRef, fontRefs, xobjRefs))
	}

	kids := raw.NewArray()
	for _, r := range pageRefs {
		kids.Append(raw.Ref(r.Num, r.Gen))
	}
	pagesDict := raw.Dict()
	pagesDict.Set("Type", raw.NameLiteral("Pages"))
	pagesDict.Set("Count", raw.NumberInt(int64(len(pageRefs))))
	pagesDict.Set("Kids", kids)
	alloc.set(pagesRef, pagesDict)

	catalogDict := raw.Dict()
	catalogDict.Set("Type", raw.NameLiteral("Catalog"))
	catalogDict.Set("Pages", raw.Ref(pagesRef.Num, pagesRef.Gen))
	if doc.Lang != "" {
		catalogDict.Set("Lang", raw.Str([]byte(doc.Lang)))
	}
	alloc.set(catalogRef, catalogDict)

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.7\n%\xE2\xE3\xCF\xD3\n")
	offsets := make(map[int]int64)
	for _, ref := range alloc.order {
		obj, ok := alloc.objects[ref]
		if !ok {
			continue
		}
		offsets[ref.Num] = int64(buf.Len())
		serialized := serializeObject(ref, obj)
		buf.Write(serialized)
	}

	xrefOffset := buf.Len()
	maxObjNum := alloc.next - 1
	buf.WriteString(fmt.Sprintf("xref\n0 %d\n", maxObjNum+1))
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= maxObjNum; i++ {
		if off, ok := offsets[i]; ok {
			buf.WriteString(fmt.Sprintf("%010d 00000 n \n", off))
		} else {
			buf.WriteString("0000000000 65535 f \n")
		}
	}
	buf.WriteString("trailer\n<<")
	buf.WriteString(fmt.Sprintf("/Size %d ", maxObjNum+1))
	buf.WriteString(fmt.Sprintf("/Root %d 0 R", catalogRef.Num))
	if infoRef != nil {
		buf.WriteString(fmt.Sprintf(" /Info %d 0 R", infoRef.Num))
	}
	buf.WriteString(">>\nstartxref\n")
	buf.WriteString(fmt.Sprintf("%d\n%%%%EOF\n", xrefOffset))

	_, err := out.Write(buf.Bytes())
	return err
}

func infoDict(info *semantic.DocumentInfo, producer string) *raw.DictObj {
	d := raw.Dict()
	if info != nil {
		setStr := func(key, val string) {
			if val != "" {
				d.Set(key, raw.Str([]byte(val)))
			}
		}
		setStr("Title", info.Title)
		setStr("Author", info.Author)
		setStr("Subject", info.Subject)
		setStr("Keywords", info.Keywords)
		setStr("Creator", info.Creator)
		setStr("Producer", info.Producer)
		setStr("CreationDate", info.CreationDate)
	}
	if _, ok := d.Get("Producer"); !ok && producer != "" {
		d.Set("Producer", raw.Str([]byte(producer)))
	}
	return d
}

// emitFonts allocates objects for every font used by any page, deduplicated
// by font pointer, and returns resource-name -> ref per font pointer.
func emitFonts(alloc *allocator, pages []*semantic.Page) map[*semantic.Font]raw.ObjectRef {
	refs := make(map[*semantic.Font]raw.ObjectRef)
	for _, p := range pages {
		if p.Resources == nil {
			continue
		}
		names := sortedKeys(p.Resources.Fonts)
		for _, name := range names {
			font := p.Resources.Fonts[name]
			if _, done := refs[font]; done {
				continue
			}
			refs[font] = emitFont(alloc, font)
		}
	}
	return refs
}

func emitFont(alloc *allocator, font *semantic.Font) raw.ObjectRef {
	ref := alloc.alloc()
	d := raw.Dict()
	d.Set("Type", raw.NameLiteral("Font"))

	if font.Subtype == "Type0" && font.DescendantFont != nil {
		descRef := emitFontDescriptor(alloc, font.DescendantFont.Descriptor)
		cidRef := alloc.alloc()
		cid := raw.Dict()
		cid.Set("Type", raw.NameLiteral("Font"))
		cid.Set("Subtype", raw.NameLiteral(font.DescendantFont.Subtype))
		cid.Set("BaseFont", raw.NameLiteral(font.DescendantFont.BaseFont))
		sys := raw.Dict()
		sys.Set("Registry", raw.Str([]byte(font.DescendantFont.CIDSystemInfo.Registry)))
		sys.Set("Ordering", raw.Str([]byte(font.DescendantFont.CIDSystemInfo.Ordering)))
		sys.Set("Supplement", raw.NumberInt(int64(font.DescendantFont.CIDSystemInfo.Supplement)))
		cid.Set("CIDSystemInfo", sys)
		cid.Set("DW", raw.NumberInt(int64(font.DescendantFont.DW)))
		cid.Set("W", widthsArray(font.DescendantFont.W))
		cid.Set("CIDToGIDMap", raw.NameLiteral("Identity"))
		if descRef != nil {
			cid.Set("FontDescriptor", raw.Ref(descRef.Num, descRef.Gen))
		}
		alloc.set(cidRef, cid)

		d.Set("Subtype", raw.NameLiteral("Type0"))
		d.Set("BaseFont", raw.NameLiteral(font.BaseFont))
		d.Set("Encoding", raw.NameLiteral(font.Encoding))
		d.Set("DescendantFonts", raw.NewArray(raw.Ref(cidRef.Num, cidRef.Gen)))
	} else {
		d.Set("Subtype", raw.NameLiteral("Type1"))
		d.Set("BaseFont", raw.NameLiteral(font.BaseFont))
		if font.Encoding != "" {
			d.Set("Encoding", raw.NameLiteral(font.Encoding))
		}
	}
	alloc.set(ref, d)
	return ref
}

func emitFontDescriptor(alloc *allocator, fd *semantic.FontDescriptor) *raw.ObjectRef {
	if fd == nil {
		return nil
	}
	var fileRef *raw.ObjectRef
	if len(fd.FontFile) > 0 {
		ref := alloc.alloc()
		compressed := flate(fd.FontFile)
		sd := raw.Dict()
		sd.Set("Length", raw.NumberInt(int64(len(compressed))))
		sd.Set("Length1", raw.NumberInt(int64(len(fd.FontFile))))
		sd.Set("Filter", raw.NameLiteral("FlateDecode"))
		alloc.set(ref, raw.NewStream(sd, compressed))
		fileRef = &ref
	}

	ref := alloc.alloc()
	d := raw.Dict()
	d.Set("Type", raw.NameLiteral("FontDescriptor"))
	d.Set("FontName", raw.NameLiteral(fd.FontName))
	d.Set("Flags", raw.NumberInt(int64(fd.Flags)))
	d.Set("ItalicAngle", raw.NumberFloat(fd.ItalicAngle))
	d.Set("Ascent", raw.NumberFloat(fd.Ascent))
	d.Set("Descent", raw.NumberFloat(fd.Descent))
	d.Set("CapHeight", raw.NumberFloat(fd.CapHeight))
	d.Set("StemV", raw.NumberFloat(fd.StemV))
	d.Set("FontBBox", raw.NewArray(
		raw.NumberFloat(fd.FontBBox[0]),
		raw.NumberFloat(fd.FontBBox[1]),
		raw.NumberFloat(fd.FontBBox[2]),
		raw.NumberFloat(fd.FontBBox[3]),
	))
	if fileRef != nil && fd.FontFileType != "" {
		d.Set(fd.FontFileType, raw.Ref(fileRef.Num, fileRef.Gen))
	}
	alloc.set(ref, d)
	return &ref
}

func widthsArray(w map[int]int) *raw.ArrayObj {
	cids := make([]int, 0, len(w))
	for cid := range w {
		cids = append(cids, cid)
	}
	sort.Ints(cids)
	arr := raw.NewArray()
	for _, cid := range cids {
		arr.Append(raw.NumberInt(int64(cid)))
		arr.Append(raw.NewArray(raw.NumberInt(int64(w[cid]))))
	}
	return arr
}

func emitXObjects(alloc *allocator, p *semantic.Page) map[string]raw.ObjectRef {
	if p.Resources == nil || len(p.Resources.XObjects) == 0 {
		return nil
	}
	refs := make(map[string]raw.ObjectRef)
	for _, name := range sortedKeys(p.Resources.XObjects) {
		xo := p.Resources.XObjects[name]
		refs[name] = emitImage(alloc, &xo)
	}
	return refs
}

func emitImage(alloc *allocator, img *semantic.XObject) raw.ObjectRef {
	var smaskRef *raw.ObjectRef
	if img.SMask != nil {
		ref := emitImage(alloc, img.SMask)
		smaskRef = &ref
	}
	ref := alloc.alloc()
	compressed := flate(img.Data)
	d := raw.Dict()
	d.Set("Type", raw.NameLiteral("XObject"))
	d.Set("Subtype", raw.NameLiteral("Image"))
	d.Set("Width", raw.NumberInt(int64(img.Width)))
	d.Set("Height", raw.NumberInt(int64(img.Height)))
	if img.ColorSpace != nil {
		d.Set("ColorSpace", raw.NameLiteral(img.ColorSpace.ColorSpaceName()))
	}
	d.Set("BitsPerComponent", raw.NumberInt(int64(img.BitsPerComponent)))
	d.Set("Filter", raw.NameLiteral("FlateDecode"))
	d.Set("Length", raw.NumberInt(int64(len(compressed))))
	if img.Interpolate {
		d.Set("Interpolate", raw.Bool(true))
	}
	if smaskRef != nil {
		d.Set("SMask", raw.Ref(smaskRef.Num, smaskRef.Gen))
	}
	alloc.set(ref, raw.NewStream(d, compressed))
	return ref
}

func contentStream(p *semantic.Page, cfg Config) *raw.StreamObj {
	var data []byte
	for _, cs := range p.Contents {
		data = append(data, serializeContentStream(cs)...)
	}
	d := raw.Dict()
	if cfg.ContentFilter == FilterFlate {
		data = flate(data)
		d.Set("Filter", raw.NameLiteral("FlateDecode"))
	}
	d.Set("Length", raw.NumberInt(int64(len(data))))
	return raw.NewStream(d, data)
}

func pageDict(p *semantic.Page, parent, content raw.ObjectRef, fontRefs map[*semantic.Font]raw.ObjectRef, xobjRefs map[string]raw.ObjectRef) *raw.DictObj {
	d := raw.Dict()
	d.Set("Type", raw.NameLiteral("Page"))
	d.Set("Parent", raw.Ref(parent.Num, parent.Gen))
	d.Set("MediaBox", raw.NewArray(
		raw.NumberFloat(p.MediaBox.LLX),
		raw.NumberFloat(p.MediaBox.LLY),
		raw.NumberFloat(p.MediaBox.URX),
		raw.NumberFloat(p.MediaBox.URY),
	))

	res := raw.Dict()
	if p.Resources != nil && len(p.Resources.Fonts) > 0 {
		fontDict := raw.Dict()
		for _, name := range sortedKeys(p.Resources.Fonts) {
			if ref, ok := fontRefs[p.Resources.Fonts[name]]; ok {
				fontDict.Set(name, raw.Ref(ref.Num, ref.Gen))
			}
		}
		res.Set("Font", fontDict)
	}
	if len(xobjRefs) > 0 {
		xoDict := raw.Dict()
		names := make([]string, 0, len(xobjRefs))
		for name := range xobjRefs {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			ref := xobjRefs[name]
			xoDict.Set(name, raw.Ref(ref.Num, ref.Gen))
		}
		res.Set("XObject", xoDict)
	}
	d.Set("Resources", res)
	d.Set("Contents", raw.Ref(content.Num, content.Gen))
	return d
}

func flate(data []byte) []byte {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	_, _ = zw.Write(data)
	_ = zw.Close()
	return buf.Bytes()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
