package static

var (
	kThemeCss = `
.error {color:#FF0000;font-weight:bold;}
.main { margin: 10px; }
.main td { padding: 2px 6px 2px 0px; }
select { min-width: 16em; }`
)
