package static

var (
	kWarehouseJs = `
function clearSelect(select) {
  while (select.options.length > 0) {
    select.remove(0);
  }
}

function populateSelect(select, pairs) {
  for (var idx = 0; idx < pairs.length; idx++) {
    var o = document.createElement("option");
    o.value = pairs[idx][0];
    o.text = pairs[idx][1];
    select.add(o, null);
  }
}

function initRecvForm(baseUrl) {
  var req = document.getElementById("link_defaultreq");
  req.onchange = function() {
    fetchRecvSites(baseUrl, req.value);
  };
}

function fetchRecvSites(baseUrl, reqId) {
  var req = new XMLHttpRequest();
  req.onreadystatechange = function() {
    if (req.readyState == 4) {
      if (req.status == 200) {
        applyRecvSites(JSON.parse(req.responseText));
      }
    }
  };
  req.open(
      "GET",
      baseUrl + "/inv/req/recv_sites.json?req_id=" + encodeURIComponent(reqId),
      true);
  req.send(null);
}

function applyRecvSites(sites) {
  var fromSelect = document.getElementById("inv_recv_from_site_id");
  var toSelect = document.getElementById("inv_recv_site_id");
  clearSelect(fromSelect);
  clearSelect(toSelect);
  var sitesFrom = sites[0];
  var sitesTo = sites[1];
  if (sitesFrom.length > 0) {
    populateSelect(fromSelect, sitesFrom);
    if (sitesFrom.length == 1) {
      fromSelect.value = sitesFrom[0][0];
    }
    var recvType = document.getElementById("inv_recv_type");
    recvType.value = "11";
    if (recvType.onchange) {
      recvType.onchange();
    }
  }
  if (sitesTo.length == 0) {
    return;
  }
  populateSelect(toSelect, sitesTo);
  if (sitesTo.length == 1) {
    toSelect.value = sitesTo[0][0];
  }
}`
)
