package pptx

// XML namespaces used in PresentationML
const (
	nsA  = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsR  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsP  = "http://schemas.openxmlformats.org/presentationml/2006/main"
	nsPR = "http://schemas.openxmlformats.org/package/2006/relationships"
)

// Relationship types
const (
	relOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relCoreProps      = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	relExtendedProps  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties"
	relSlideMaster    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster"
	relSlideLayout    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout"
	relSlide          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"
	relTheme          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme"
	relPresProps      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/presProps"
	relViewProps      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/viewProps"
	relTableStyles    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/tableStyles"
	relImage          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
)

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

const contentTypesTmpl = xmlHeader + `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Default Extension="png" ContentType="image/png"/>
<Default Extension="jpeg" ContentType="image/jpeg"/>
<Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>
<Override PartName="/ppt/slideMasters/slideMaster1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"/>
<Override PartName="/ppt/slideLayouts/slideLayout1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"/>
<Override PartName="/ppt/theme/theme1.xml" ContentType="application/vnd.openxmlformats-officedocument.theme+xml"/>
<Override PartName="/ppt/presProps.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presProps+xml"/>
<Override PartName="/ppt/viewProps.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.viewProps+xml"/>
<Override PartName="/ppt/tableStyles.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.tableStyles+xml"/>
{{- range .Slides}}
<Override PartName="/ppt/slides/{{.Name}}" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slide+xml"/>
{{- end}}
<Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>
<Override PartName="/docProps/app.xml" ContentType="application/vnd.openxmlformats-officedocument.extended-properties+xml"/>
</Types>`

const rootRelsTmpl = xmlHeader + `<Relationships xmlns="` + nsPR + `">
<Relationship Id="rId1" Type="` + relOfficeDocument + `" Target="ppt/presentation.xml"/>
<Relationship Id="rId2" Type="` + relCoreProps + `" Target="docProps/core.xml"/>
<Relationship Id="rId3" Type="` + relExtendedProps + `" Target="docProps/app.xml"/>
</Relationships>`

const coreTmpl = xmlHeader + `<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/" xmlns:dcmitype="http://purl.org/dc/dcmitype/" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">
<dc:title>{{esc .Title}}</dc:title>
<dc:subject>{{esc .Subtitle}}</dc:subject>
<cp:lastModifiedBy>ticketreport</cp:lastModifiedBy>
<dcterms:created xsi:type="dcterms:W3CDTF">{{.Created}}</dcterms:created>
<dcterms:modified xsi:type="dcterms:W3CDTF">{{.Created}}</dcterms:modified>
</cp:coreProperties>`

const appTmpl = xmlHeader + `<Properties xmlns="http://schemas.openxmlformats.org/officeDocument/2006/extended-properties" xmlns:vt="http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes">
<Application>ticketreport</Application>
<PresentationFormat>On-screen Show (4:3)</PresentationFormat>
<Slides>{{len .Slides}}</Slides>
</Properties>`

const presentationTmpl = xmlHeader + `<p:presentation xmlns:a="` + nsA + `" xmlns:r="` + nsR + `" xmlns:p="` + nsP + `" saveSubsetFonts="1">
<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>
<p:sldIdLst>
{{- range $i, $s := .Slides}}
<p:sldId id="{{add 256 $i}}" r:id="{{$s.PresRelID}}"/>
{{- end}}
</p:sldIdLst>
<p:sldSz cx="{{.Width}}" cy="{{.Height}}" type="screen4x3"/>
<p:notesSz cx="6858000" cy="9144000"/>
</p:presentation>`

const presentationRelsTmpl = xmlHeader + `<Relationships xmlns="` + nsPR + `">
<Relationship Id="rId1" Type="` + relSlideMaster + `" Target="slideMasters/slideMaster1.xml"/>
{{- range .Slides}}
<Relationship Id="{{.PresRelID}}" Type="` + relSlide + `" Target="slides/{{.Name}}"/>
{{- end}}
<Relationship Id="{{.PropsRelID 0}}" Type="` + relPresProps + `" Target="presProps.xml"/>
<Relationship Id="{{.PropsRelID 1}}" Type="` + relViewProps + `" Target="viewProps.xml"/>
<Relationship Id="{{.PropsRelID 2}}" Type="` + relTheme + `" Target="theme/theme1.xml"/>
<Relationship Id="{{.PropsRelID 3}}" Type="` + relTableStyles + `" Target="tableStyles.xml"/>
</Relationships>`

const emptyGroup = `<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>` +
	`<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>`

const slideMasterXML = xmlHeader + `<p:sldMaster xmlns:a="` + nsA + `" xmlns:r="` + nsR + `" xmlns:p="` + nsP + `">
<p:cSld><p:bg><p:bgRef idx="1001"><a:schemeClr val="bg1"/></p:bgRef></p:bg><p:spTree>` + emptyGroup + `</p:spTree></p:cSld>
<p:clrMap bg1="lt1" tx1="dk1" bg2="lt2" tx2="dk2" accent1="accent1" accent2="accent2" accent3="accent3" accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"/>
<p:sldLayoutIdLst><p:sldLayoutId id="2147483649" r:id="rId1"/></p:sldLayoutIdLst>
<p:txStyles><p:titleStyle/><p:bodyStyle/><p:otherStyle/></p:txStyles>
</p:sldMaster>`

const slideMasterRelsXML = xmlHeader + `<Relationships xmlns="` + nsPR + `">
<Relationship Id="rId1" Type="` + relSlideLayout + `" Target="../slideLayouts/slideLayout1.xml"/>
<Relationship Id="rId2" Type="` + relTheme + `" Target="../theme/theme1.xml"/>
</Relationships>`

const slideLayoutXML = xmlHeader + `<p:sldLayout xmlns:a="` + nsA + `" xmlns:r="` + nsR + `" xmlns:p="` + nsP + `" type="blank" preserve="1">
<p:cSld name="Blank"><p:spTree>` + emptyGroup + `</p:spTree></p:cSld>
<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>
</p:sldLayout>`

const slideLayoutRelsXML = xmlHeader + `<Relationships xmlns="` + nsPR + `">
<Relationship Id="rId1" Type="` + relSlideMaster + `" Target="../slideMasters/slideMaster1.xml"/>
</Relationships>`

const themeTmpl = xmlHeader + `<a:theme xmlns:a="` + nsA + `" name="Ticket Report">
<a:themeElements>
<a:clrScheme name="Ticket Report">
<a:dk1><a:srgbClr val="000000"/></a:dk1>
<a:lt1><a:srgbClr val="FFFFFF"/></a:lt1>
<a:dk2><a:srgbClr val="333333"/></a:dk2>
<a:lt2><a:srgbClr val="EEEEEE"/></a:lt2>
<a:accent1><a:srgbClr val="{{.Primary}}"/></a:accent1>
<a:accent2><a:srgbClr val="{{.Secondary}}"/></a:accent2>
<a:accent3><a:srgbClr val="{{.Tertiary}}"/></a:accent3>
<a:accent4><a:srgbClr val="888888"/></a:accent4>
<a:accent5><a:srgbClr val="CCCCCC"/></a:accent5>
<a:accent6><a:srgbClr val="4F81BD"/></a:accent6>
<a:hlink><a:srgbClr val="0563C1"/></a:hlink>
<a:folHlink><a:srgbClr val="954F72"/></a:folHlink>
</a:clrScheme>
<a:fontScheme name="Ticket Report">
<a:majorFont><a:latin typeface="Calibri"/><a:ea typeface=""/><a:cs typeface=""/></a:majorFont>
<a:minorFont><a:latin typeface="Calibri"/><a:ea typeface=""/><a:cs typeface=""/></a:minorFont>
</a:fontScheme>
<a:fmtScheme name="Ticket Report">
<a:fillStyleLst>
<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>
<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>
<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>
</a:fillStyleLst>
<a:lnStyleLst>
<a:ln w="9525"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln>
<a:ln w="25400"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln>
<a:ln w="38100"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln>
</a:lnStyleLst>
<a:effectStyleLst>
<a:effectStyle><a:effectLst/></a:effectStyle>
<a:effectStyle><a:effectLst/></a:effectStyle>
<a:effectStyle><a:effectLst/></a:effectStyle>
</a:effectStyleLst>
<a:bgFillStyleLst>
<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>
<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>
<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>
</a:bgFillStyleLst>
</a:fmtScheme>
</a:themeElements>
</a:theme>`

const presPropsXML = xmlHeader + `<p:presentationPr xmlns:a="` + nsA + `" xmlns:r="` + nsR + `" xmlns:p="` + nsP + `"/>`

const viewPropsXML = xmlHeader + `<p:viewPr xmlns:a="` + nsA + `" xmlns:r="` + nsR + `" xmlns:p="` + nsP + `"><p:gridSpacing cx="76200" cy="76200"/></p:viewPr>`

const tableStylesXML = xmlHeader + `<a:tblStyleLst xmlns:a="` + nsA + `" def="{5C22544A-7EE6-4342-B048-85BDC9FD1C3A}"/>`

const slideTmpl = xmlHeader + `<p:sld xmlns:a="` + nsA + `" xmlns:r="` + nsR + `" xmlns:p="` + nsP + `">
<p:cSld><p:spTree>` + emptyGroup + `
{{- range .Texts}}
<p:sp><p:nvSpPr><p:cNvPr id="{{.ID}}" name="{{esc .Name}}"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr>
<p:spPr><a:xfrm><a:off x="{{.X}}" y="{{.Y}}"/><a:ext cx="{{.W}}" cy="{{.H}}"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom><a:noFill/></p:spPr>
<p:txBody><a:bodyPr wrap="square" rtlCol="0" anchor="{{.Anchor}}"><a:normAutofit/></a:bodyPr><a:lstStyle/>
<a:p><a:pPr algn="{{.Align}}"/><a:r><a:rPr lang="en-US" sz="{{.Size}}"{{if .Bold}} b="1"{{end}} dirty="0">{{if .Color}}<a:solidFill><a:srgbClr val="{{.Color}}"/></a:solidFill>{{end}}</a:rPr><a:t>{{esc .Text}}</a:t></a:r></a:p>
</p:txBody></p:sp>
{{- end}}
{{- range .Pictures}}
<p:pic><p:nvPicPr><p:cNvPr id="{{.ID}}" name="{{esc .Name}}" descr="{{esc .Descr}}"/><p:cNvPicPr><a:picLocks noChangeAspect="1"/></p:cNvPicPr><p:nvPr/></p:nvPicPr>
<p:blipFill><a:blip r:embed="{{.RelID}}"/><a:stretch><a:fillRect/></a:stretch></p:blipFill>
<p:spPr><a:xfrm><a:off x="{{.X}}" y="{{.Y}}"/><a:ext cx="{{.W}}" cy="{{.H}}"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr></p:pic>
{{- end}}
</p:spTree></p:cSld>
<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>
</p:sld>`

const slideRelsTmpl = xmlHeader + `<Relationships xmlns="` + nsPR + `">
<Relationship Id="rId1" Type="` + relSlideLayout + `" Target="../slideLayouts/slideLayout1.xml"/>
{{- range .Pictures}}
<Relationship Id="{{.RelID}}" Type="` + relImage + `" Target="../media/{{.Media}}"/>
{{- end}}
</Relationships>`
