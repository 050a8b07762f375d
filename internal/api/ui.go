package api

// indexHTML is the single-page browser form. It talks to the JSON API and
// keeps no state of its own beyond the current analysis and job ID.
const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>tubesnap</title>
<style>
  body { font-family: system-ui, sans-serif; max-width: 640px; margin: 2rem auto; padding: 0 1rem; color: #222; }
  h1 { font-size: 1.5rem; }
  .card { border: 1px solid #ddd; border-radius: 8px; padding: 1rem; margin-bottom: 1rem; }
  input[type=url], select { width: 100%; padding: .5rem; box-sizing: border-box; margin: .25rem 0 .75rem; }
  button { padding: .5rem 1rem; border: 0; border-radius: 6px; background: #c4302b; color: #fff; cursor: pointer; }
  button:disabled { background: #999; cursor: default; }
  .row { display: flex; gap: 1rem; align-items: flex-start; }
  .row img { width: 180px; border-radius: 6px; }
  #status { margin-top: .75rem; font-size: .9rem; }
  #status.error { color: #b00020; }
  #result a { display: inline-block; margin-top: .5rem; }
  .warn { color: #8a6d00; font-size: .9rem; }
  label { font-weight: 600; }
</style>
</head>
<body>
<h1>tubesnap</h1>

<div class="card">
  <label for="url">Video URL</label>
  <input type="url" id="url" placeholder="https://www.youtube.com/watch?v=...">
  <button id="analyze">Analyze Video</button>
  <div id="analyze-msg" class="warn"></div>
</div>

<div class="card" id="video" hidden>
  <div class="row">
    <img id="thumb" alt="" hidden>
    <div style="flex:1">
      <h2 id="title"></h2>
      <label>1. Choose format</label><br>
      <label style="font-weight:400"><input type="radio" name="format" value="mp3" checked> MP3 (Audio)</label>
      <label style="font-weight:400"><input type="radio" name="format" value="mp4"> MP4 (Video)</label>
      <br><br>
      <label for="quality">2. Choose quality</label>
      <select id="quality"></select>
      <button id="start">Start Download</button>
      <div id="status"></div>
      <div id="result"></div>
    </div>
  </div>
</div>

<script>
let analysis = null;
let pollTimer = null;

const el = (id) => document.getElementById(id);

async function postJSON(path, body) {
  const resp = await fetch(path, {
    method: 'POST',
    headers: {'Content-Type': 'application/json'},
    body: JSON.stringify(body),
  });
  const data = await resp.json();
  if (!resp.ok) throw new Error(data.error || 'Request failed');
  return data;
}

function fillQualities() {
  const format = document.querySelector('input[name=format]:checked').value;
  const sel = el('quality');
  sel.innerHTML = '';
  const options = format === 'mp3' ? analysis.bitrates : analysis.qualities;
  for (const opt of options) {
    const o = document.createElement('option');
    o.value = opt;
    o.textContent = format === 'mp3' ? opt + ' kbps' : opt;
    sel.appendChild(o);
  }
}

el('analyze').onclick = async () => {
  el('analyze-msg').textContent = '';
  el('video').hidden = true;
  const url = el('url').value.trim();
  if (!url) { el('analyze-msg').textContent = 'Please enter a URL.'; return; }
  el('analyze').disabled = true;
  el('analyze').textContent = 'Analyzing...';
  try {
    analysis = await postJSON('/api/analyze', {url});
    el('title').textContent = analysis.title;
    if (analysis.thumbnail) { el('thumb').src = analysis.thumbnail; el('thumb').hidden = false; }
    fillQualities();
    el('video').hidden = false;
  } catch (err) {
    el('analyze-msg').textContent = err.message;
  } finally {
    el('analyze').disabled = false;
    el('analyze').textContent = 'Analyze Video';
  }
};

for (const radio of document.querySelectorAll('input[name=format]')) {
  radio.onchange = fillQualities;
}

el('start').onclick = async () => {
  const status = el('status');
  status.className = '';
  el('result').innerHTML = '';
  const quality = el('quality').value;
  if (!quality) { status.className = 'error'; status.textContent = 'Please choose a quality.'; return; }
  el('start').disabled = true;
  try {
    const job = await postJSON('/api/download', {
      url: el('url').value.trim(),
      title: analysis.title,
      format: document.querySelector('input[name=format]:checked').value,
      quality: quality,
    });
    status.textContent = 'Starting...';
    poll(job.id);
  } catch (err) {
    status.className = 'error';
    status.textContent = err.message;
    el('start').disabled = false;
  }
};

function poll(id) {
  clearInterval(pollTimer);
  pollTimer = setInterval(async () => {
    const resp = await fetch('/api/progress/' + id);
    const data = await resp.json();
    const status = el('status');
    status.textContent = data.label || '';
    if (data.state === 'complete') {
      clearInterval(pollTimer);
      el('start').disabled = false;
      if (data.file) {
        el('result').innerHTML = '<a href="/api/file/' + id + '" download>Download ' + data.file.name + '</a>';
      }
    } else if (data.state === 'error') {
      clearInterval(pollTimer);
      el('start').disabled = false;
      status.className = 'error';
      if (data.error) status.textContent = data.label + ' — ' + data.error;
    }
  }, 750);
}
</script>
</body>
</html>
`
