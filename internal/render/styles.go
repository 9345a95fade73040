package render

// One stylesheet per registered style identifier. Adding a style means
// adding a constant here and an entry in the styles map.

const modernCSS = `
body { margin: 0; padding: 0; font-family: 'Helvetica Neue', Arial, sans-serif; color: #1f2937; }
.resume { max-width: 720px; margin: 0 auto; }
.header { display: flex; align-items: center; gap: 20px; border-bottom: 3px solid #2563eb; padding-bottom: 14px; }
.profile-pic { width: 96px; height: 96px; border-radius: 50%; object-fit: cover; }
h1 { margin: 0 0 4px 0; font-size: 26pt; color: #2563eb; }
h2 { font-size: 13pt; text-transform: uppercase; letter-spacing: 1px; color: #2563eb; border-bottom: 1px solid #cbd5e1; padding-bottom: 3px; }
.contact span { margin-right: 10px; font-size: 9pt; color: #475569; }
.summary { font-size: 10pt; }
.entry { margin-bottom: 10px; }
.entry-head { display: flex; justify-content: space-between; font-size: 11pt; }
.entry-sub { font-size: 10pt; color: #475569; }
.dates, .tech { font-size: 9pt; color: #64748b; }
.entry p { margin: 4px 0 0 0; font-size: 10pt; }
.skills { list-style: none; padding: 0; margin: 0; display: flex; flex-wrap: wrap; gap: 6px; }
.skills li { background: #eff6ff; border: 1px solid #bfdbfe; border-radius: 4px; padding: 2px 8px; font-size: 9pt; }
`

const classicCSS = `
body { margin: 0; padding: 0; font-family: Georgia, 'Times New Roman', serif; color: #111; }
.resume { max-width: 720px; margin: 0 auto; }
.header { text-align: center; border-bottom: 1px solid #111; padding-bottom: 12px; }
.profile-pic { width: 90px; height: 90px; object-fit: cover; }
h1 { margin: 0; font-size: 24pt; font-variant: small-caps; }
h2 { font-size: 12pt; font-variant: small-caps; border-bottom: 1px solid #999; padding-bottom: 2px; }
.contact span { margin: 0 6px; font-size: 9pt; }
.summary { font-style: italic; font-size: 10pt; }
.entry { margin-bottom: 9px; }
.entry-head { display: flex; justify-content: space-between; font-size: 11pt; }
.entry-sub { font-size: 10pt; font-style: italic; }
.dates, .tech { font-size: 9pt; }
.entry p { margin: 3px 0 0 0; font-size: 10pt; }
.skills { list-style: none; padding: 0; margin: 0; }
.skills li { display: inline; margin-right: 14px; font-size: 10pt; }
`

const minimalCSS = `
body { margin: 0; padding: 0; font-family: 'Segoe UI', Tahoma, sans-serif; color: #333; }
.resume { max-width: 680px; margin: 0 auto; }
.header { display: flex; gap: 16px; padding-bottom: 10px; }
.profile-pic { width: 72px; height: 72px; border-radius: 6px; object-fit: cover; }
h1 { margin: 0; font-size: 20pt; font-weight: 300; }
h2 { font-size: 11pt; font-weight: 600; color: #555; margin-bottom: 4px; }
.contact span { margin-right: 8px; font-size: 8.5pt; color: #777; }
.summary { font-size: 9.5pt; color: #555; }
.entry { margin-bottom: 8px; }
.entry-head { display: flex; justify-content: space-between; font-size: 10.5pt; }
.entry-sub { font-size: 9.5pt; color: #777; }
.dates, .tech { font-size: 8.5pt; color: #999; }
.entry p { margin: 2px 0 0 0; font-size: 9.5pt; }
.skills { list-style: none; padding: 0; margin: 0; }
.skills li { display: inline-block; margin: 0 10px 4px 0; font-size: 9.5pt; }
`
